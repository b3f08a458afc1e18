package campaign

import (
	"errors"
	"strings"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the campaign back-office. Everything is admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	campaigns := rg.Group("/campaigns", adminMW)
	{
		campaigns.POST("", h.Create)
		campaigns.POST("/test", h.SendTest)
		campaigns.GET("", h.List)
		campaigns.GET("/:id", h.Get)
		campaigns.PUT("/:id", h.Update)
		campaigns.DELETE("/:id", h.Delete)
		campaigns.GET("/:id/recipients", h.PreviewRecipients)
		campaigns.POST("/:id/send", h.Send)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var dto CampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	campaign, err := h.svc.Create(dto)
	if err != nil {
		response.InternalError(c, "failed to create campaign")
		return
	}
	response.Created(c, toResponse(campaign))
}

// SendTest validates and dispatches a test-mode campaign in one step, so the
// back-office can proof a draft without saving it first.
func (h *Handler) SendTest(c *gin.Context) {
	var dto CampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Recipients = models.RecipientsTest
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	campaign, err := h.svc.Create(dto)
	if err != nil {
		response.InternalError(c, "failed to create campaign")
		return
	}
	sent, err := h.svc.Send(campaign.ID)
	if err != nil {
		response.InternalError(c, "test send failed")
		return
	}
	response.OK(c, toResponse(sent))
}

func (h *Handler) List(c *gin.Context) {
	campaigns, err := h.svc.List(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	if err != nil {
		response.InternalError(c, "failed to list campaigns")
		return
	}
	items := make([]campaignResponse, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, toResponse(&campaigns[i]))
	}
	response.OK(c, gin.H{"data": items, "total": len(items)})
}

func (h *Handler) Get(c *gin.Context) {
	campaign, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "campaign not found")
			return
		}
		response.InternalError(c, "failed to fetch campaign")
		return
	}
	response.OK(c, toResponse(campaign))
}

func (h *Handler) Update(c *gin.Context) {
	var dto CampaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	campaign, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "campaign not found")
		case errors.Is(err, ErrNotDraft):
			response.Conflict(c, "only draft campaigns can be edited")
		default:
			response.InternalError(c, "failed to update campaign")
		}
		return
	}
	response.OK(c, toResponse(campaign))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "campaign not found")
		case errors.Is(err, ErrNotDraft):
			response.Conflict(c, "only draft campaigns can be deleted")
		default:
			response.InternalError(c, "failed to delete campaign")
		}
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) PreviewRecipients(c *gin.Context) {
	recipients, err := h.svc.PreviewRecipients(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "campaign not found")
			return
		}
		response.InternalError(c, "failed to resolve recipients")
		return
	}

	emails := make([]string, 0, len(recipients))
	for _, r := range recipients {
		emails = append(emails, r.Email)
	}
	response.OK(c, gin.H{"emails": emails, "total": len(emails)})
}

func (h *Handler) Send(c *gin.Context) {
	campaign, err := h.svc.Send(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "campaign not found")
		case errors.Is(err, ErrAlreadySent):
			response.Conflict(c, "campaign has already been sent")
		case errors.Is(err, ErrSendInProgress):
			response.Conflict(c, "campaign send is in progress")
		case errors.Is(err, ErrNoRecipients):
			response.BadRequest(c, "campaign resolved to zero recipients")
		default:
			response.InternalError(c, "campaign send failed")
		}
		return
	}
	response.OK(c, toResponse(campaign))
}
