package category

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
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/:slug", h.GetBySlug)

		admin := categories.Group("", adminMW)
		{
			admin.POST("", h.Create)
			admin.PUT("/:slug", h.Update)
			admin.DELETE("/:slug", h.Delete)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	cats, err := h.svc.List()
	if err != nil {
		response.InternalError(c, "failed to list categories")
		return
	}
	response.OK(c, gin.H{"data": cats})
}

func (h *Handler) GetBySlug(c *gin.Context) {
	cat, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "category not found")
			return
		}
		response.InternalError(c, "failed to fetch category")
		return
	}
	response.OK(c, cat)
}

func (h *Handler) Create(c *gin.Context) {
	var dto CategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.svc.Create(dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			response.Conflict(c, "category slug already in use")
			return
		}
		response.InternalError(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

func (h *Handler) Update(c *gin.Context) {
	var dto CategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "category not found")
			return
		}
		response.InternalError(c, "failed to fetch category")
		return
	}

	cat, err := h.svc.Update(existing.ID, dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			response.Conflict(c, "category slug already in use")
			return
		}
		response.InternalError(c, "failed to update category")
		return
	}
	response.OK(c, cat)
}

func (h *Handler) Delete(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "category not found")
			return
		}
		response.InternalError(c, "failed to fetch category")
		return
	}

	if err := h.svc.Delete(existing.ID); err != nil {
		if errors.Is(err, ErrInUse) {
			response.Conflict(c, "category still has posts")
			return
		}
		response.InternalError(c, "failed to delete category")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
