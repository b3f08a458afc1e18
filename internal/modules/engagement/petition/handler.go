package petition

import (
	"errors"

	"github.com/agorahq/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	petitions := rg.Group("/petitions")
	{
		petitions.GET("", h.List)
		petitions.GET("/:slug", h.GetBySlug)
		petitions.POST("/:slug/sign", h.Sign)

		admin := petitions.Group("/admin", adminMW)
		{
			admin.GET("", h.AdminList)
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
			admin.GET("/:id/signatures", h.Signatures)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	petitions, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, "failed to list petitions")
		return
	}
	response.OK(c, gin.H{"data": petitions})
}

func (h *Handler) AdminList(c *gin.Context) {
	petitions, err := h.svc.List(true)
	if err != nil {
		response.InternalError(c, "failed to list petitions")
		return
	}
	response.OK(c, gin.H{"data": petitions})
}

// GetBySlug returns the petition, its progress and the consenting signatures.
func (h *Handler) GetBySlug(c *gin.Context) {
	petition, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "petition not found")
			return
		}
		response.InternalError(c, "failed to fetch petition")
		return
	}

	count, err := h.svc.SignatureCount(petition.ID)
	if err != nil {
		response.InternalError(c, "failed to fetch petition")
		return
	}
	names, err := h.svc.PublicSignatures(petition.ID)
	if err != nil {
		response.InternalError(c, "failed to fetch petition")
		return
	}

	response.OK(c, gin.H{
		"petition":          petition,
		"progress":          progressOf(count, petition.Goal),
		"public_signatures": names,
	})
}

func (h *Handler) Sign(c *gin.Context) {
	var dto SignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	petition, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "petition not found")
			return
		}
		response.InternalError(c, "failed to fetch petition")
		return
	}

	if _, err := h.svc.Sign(petition.ID, dto); err != nil {
		if errors.Is(err, ErrAlreadySigned) {
			response.Conflict(c, "email already signed this petition")
			return
		}
		response.InternalError(c, "signing failed")
		return
	}

	count, err := h.svc.SignatureCount(petition.ID)
	if err != nil {
		response.InternalError(c, "signing failed")
		return
	}
	response.Created(c, gin.H{"progress": progressOf(count, petition.Goal)})
}

func (h *Handler) Create(c *gin.Context) {
	var dto PetitionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	petition, err := h.svc.Create(dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			response.Conflict(c, "petition slug already in use")
			return
		}
		response.InternalError(c, "failed to create petition")
		return
	}
	response.Created(c, petition)
}

func (h *Handler) Update(c *gin.Context) {
	var dto PetitionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	petition, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "petition not found")
		case errors.Is(err, ErrDuplicateSlug):
			response.Conflict(c, "petition slug already in use")
		default:
			response.InternalError(c, "failed to update petition")
		}
		return
	}
	response.OK(c, petition)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "petition not found")
			return
		}
		response.InternalError(c, "failed to delete petition")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) Signatures(c *gin.Context) {
	sigs, err := h.svc.Signatures(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "petition not found")
			return
		}
		response.InternalError(c, "failed to list signatures")
		return
	}
	response.OK(c, gin.H{"data": sigs, "total": len(sigs)})
}
