package post

import (
	"errors"
	"strings"

	"github.com/agorahq/core/internal/pkg/markdown"
	"github.com/agorahq/core/internal/pkg/pagination"
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
	posts := rg.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:slug", h.GetBySlug)
		posts.GET("/:slug/render", h.Render)

		admin := posts.Group("/admin", adminMW)
		{
			admin.GET("", h.AdminList)
			admin.POST("", h.Create)
			admin.GET("/:id", h.AdminGet)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList includes drafts.
func (h *Handler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, includeDrafts bool) {
	filter := ListFilter{
		CategorySlug: strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Tag:          strings.TrimSpace(c.Query("tag")),
		All:          includeDrafts,
	}

	posts, page, err := h.svc.List(filter, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, "failed to list posts")
		return
	}
	response.Paged(c, posts, page)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "post not found")
			return
		}
		response.InternalError(c, "failed to fetch post")
		return
	}
	response.OK(c, post)
}

// Render returns the post with its markdown rendered to HTML.
func (h *Handler) Render(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "post not found")
			return
		}
		response.InternalError(c, "failed to fetch post")
		return
	}

	html, err := markdown.Render(post.Text)
	if err != nil {
		response.InternalError(c, "failed to render post")
		return
	}
	response.OK(c, gin.H{
		"id":    post.ID,
		"slug":  post.Slug,
		"title": post.Title,
		"html":  html,
	})
}

func (h *Handler) AdminGet(c *gin.Context) {
	post, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "post not found")
			return
		}
		response.InternalError(c, "failed to fetch post")
		return
	}
	response.OK(c, post)
}

func (h *Handler) Create(c *gin.Context) {
	var dto PostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	post, err := h.svc.Create(dto)
	if err != nil {
		h.writeError(c, err, "failed to create post")
		return
	}
	response.Created(c, post)
}

func (h *Handler) Update(c *gin.Context) {
	var dto PostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	post, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		h.writeError(c, err, "failed to update post")
		return
	}
	response.OK(c, post)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "post not found")
			return
		}
		response.InternalError(c, "failed to delete post")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "post not found")
	case errors.Is(err, ErrDuplicateSlug):
		response.Conflict(c, "post slug already in use")
	case errors.Is(err, ErrUnknownCategory):
		response.BadRequest(c, "unknown category")
	default:
		response.InternalError(c, fallback)
	}
}
