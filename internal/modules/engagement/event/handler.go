package event

import (
	"errors"

	"github.com/agorahq/core/internal/config"
	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/mail"
	"github.com/agorahq/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	mailer *mail.Sender
	cfg    *config.AppConfig
	log    *zap.Logger
}

func NewHandler(svc *Service, mailer *mail.Sender, cfg *config.AppConfig, log *zap.Logger) *Handler {
	return &Handler{svc: svc, mailer: mailer, cfg: cfg, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	events := rg.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/:slug", h.GetBySlug)
		events.POST("/:slug/register", h.Register)

		admin := events.Group("/admin", adminMW)
		{
			admin.GET("", h.AdminList)
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
			admin.GET("/:id/registrations", h.Registrations)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	events, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"data": events})
}

func (h *Handler) AdminList(c *gin.Context) {
	events, err := h.svc.List(true)
	if err != nil {
		response.InternalError(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"data": events})
}

func (h *Handler) GetBySlug(c *gin.Context) {
	event, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "event not found")
			return
		}
		response.InternalError(c, "failed to fetch event")
		return
	}

	count, err := h.svc.RegistrationCount(event.ID)
	if err != nil {
		response.InternalError(c, "failed to fetch event")
		return
	}
	response.OK(c, gin.H{
		"event":      event,
		"registered": count,
		"spots_left": spotsLeft(event.Capacity, count),
	})
}

func (h *Handler) Register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	event, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "event not found")
			return
		}
		response.InternalError(c, "failed to fetch event")
		return
	}

	reg, err := h.svc.Register(event.ID, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			response.Conflict(c, "email already registered for this event")
		case errors.Is(err, ErrFull):
			response.Conflict(c, "event is at capacity")
		case errors.Is(err, ErrClosed):
			response.Conflict(c, "event has already started")
		default:
			response.InternalError(c, "registration failed")
		}
		return
	}

	go h.sendConfirmation(event, reg)

	response.Created(c, reg)
}

func (h *Handler) Create(c *gin.Context) {
	var dto EventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	event, err := h.svc.Create(dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			response.Conflict(c, "event slug already in use")
			return
		}
		response.InternalError(c, "failed to create event")
		return
	}
	response.Created(c, event)
}

func (h *Handler) Update(c *gin.Context) {
	var dto EventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	event, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "event not found")
		case errors.Is(err, ErrDuplicateSlug):
			response.Conflict(c, "event slug already in use")
		default:
			response.InternalError(c, "failed to update event")
		}
		return
	}
	response.OK(c, event)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "event not found")
			return
		}
		response.InternalError(c, "failed to delete event")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) Registrations(c *gin.Context) {
	regs, err := h.svc.Registrations(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "event not found")
			return
		}
		response.InternalError(c, "failed to list registrations")
		return
	}
	response.OK(c, gin.H{"data": regs, "total": len(regs)})
}

func (h *Handler) sendConfirmation(event *models.EventModel, reg *models.EventRegistrationModel) {
	err := h.mailer.SendEventConfirmation(reg.Email, mail.EventConfirmData{
		Name:       reg.Name,
		EventTitle: event.Title,
		StartsAt:   event.StartsAt.Format("2006-01-02 15:04"),
		Location:   event.Location,
	})
	if err != nil {
		h.log.Warn("event confirmation mail failed",
			zap.String("event", event.ID),
			zap.String("email", reg.Email),
			zap.Error(err))
	}
}

func spotsLeft(capacity int, registered int64) any {
	if capacity == 0 {
		return nil
	}
	left := int64(capacity) - registered
	if left < 0 {
		left = 0
	}
	return left
}
