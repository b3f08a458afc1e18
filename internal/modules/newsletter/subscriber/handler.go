package subscriber

import (
	"errors"
	"fmt"
	"strings"

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

// RegisterRoutes wires public subscribe/unsubscribe and the admin listing.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	subs := rg.Group("/subscribers")
	{
		subs.POST("", h.Subscribe)
		subs.POST("/unsubscribe", h.Unsubscribe)
		subs.GET("/unsubscribe", h.UnsubscribeLink)

		admin := subs.Group("", adminMW)
		{
			admin.GET("", h.List)
			admin.GET("/stats", h.GetStats)
			admin.GET("/:id", h.Get)
			admin.PATCH("/:id/preferences", h.UpdatePreferences)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *Handler) Subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	sub, err := h.svc.Subscribe(dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			response.Conflict(c, "email already subscribed")
			return
		}
		response.InternalError(c, "subscribe failed")
		return
	}

	go h.sendWelcome(sub)

	response.Created(c, toResponse(sub))
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var dto UnsubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	h.unsubscribe(c, dto)
}

// UnsubscribeLink serves the one-click link embedded in every campaign email.
func (h *Handler) UnsubscribeLink(c *gin.Context) {
	dto := UnsubscribeDTO{
		Email: c.Query("email"),
		Token: c.Query("token"),
	}
	h.unsubscribe(c, dto)
}

func (h *Handler) unsubscribe(c *gin.Context, dto UnsubscribeDTO) {
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	if dto.Token != "" {
		if err := h.svc.UnsubscribeByToken(dto.Token); err != nil {
			if errors.Is(err, ErrNotFound) {
				response.NotFoundMsg(c, "unknown unsubscribe token")
				return
			}
			response.InternalError(c, "unsubscribe failed")
			return
		}
		response.OK(c, gin.H{"unsubscribed": true})
		return
	}

	// The email path succeeds even for unknown addresses.
	if err := h.svc.Unsubscribe(dto.Email); err != nil {
		response.InternalError(c, "unsubscribe failed")
		return
	}
	response.OK(c, gin.H{"unsubscribed": true})
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		Category: strings.ToUpper(strings.TrimSpace(c.Query("category"))),
		Source:   strings.ToLower(strings.TrimSpace(c.Query("source"))),
	}
	switch c.Query("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	subs, err := h.svc.List(filter)
	if err != nil {
		response.InternalError(c, "failed to list subscribers")
		return
	}

	items := make([]subscriberResponse, 0, len(subs))
	for i := range subs {
		items = append(items, toResponse(&subs[i]))
	}
	response.OK(c, gin.H{"data": items, "total": len(items)})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		response.InternalError(c, "failed to compute stats")
		return
	}
	response.OK(c, stats)
}

func (h *Handler) Get(c *gin.Context) {
	sub, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "subscriber not found")
			return
		}
		response.InternalError(c, "failed to fetch subscriber")
		return
	}
	response.OK(c, toResponse(sub))
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var dto UpdatePreferencesDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	sub, err := h.svc.UpdatePreferences(c.Param("id"), dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "subscriber not found")
			return
		}
		response.InternalError(c, "failed to update preferences")
		return
	}
	response.OK(c, toResponse(sub))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "subscriber not found")
			return
		}
		response.InternalError(c, "failed to delete subscriber")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) sendWelcome(sub *models.SubscriberModel) {
	err := h.mailer.SendWelcome(sub.Email, mail.WelcomeData{
		SiteName:       h.cfg.SiteName,
		Name:           sub.Name,
		Categories:     strings.Join(sub.Categories, ", "),
		UnsubscribeURL: fmt.Sprintf("%s/api/v1/subscribers/unsubscribe?token=%s", h.cfg.ServerURL, sub.Token),
	})
	if err != nil {
		h.log.Warn("welcome mail failed", zap.String("email", sub.Email), zap.Error(err))
	}
}
