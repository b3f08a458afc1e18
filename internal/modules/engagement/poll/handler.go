package poll

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
	polls := rg.Group("/polls")
	{
		polls.GET("", h.List)
		polls.GET("/:id", h.Get)
		polls.POST("/:id/vote", h.Vote)
		polls.GET("/:id/results", h.Results)

		admin := polls.Group("/admin", adminMW)
		{
			admin.GET("", h.AdminList)
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	polls, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, "failed to list polls")
		return
	}
	response.OK(c, gin.H{"data": polls})
}

func (h *Handler) AdminList(c *gin.Context) {
	polls, err := h.svc.List(true)
	if err != nil {
		response.InternalError(c, "failed to list polls")
		return
	}
	response.OK(c, gin.H{"data": polls})
}

func (h *Handler) Get(c *gin.Context) {
	poll, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "poll not found")
			return
		}
		response.InternalError(c, "failed to fetch poll")
		return
	}
	if !poll.IsPublished {
		response.NotFoundMsg(c, "poll not found")
		return
	}
	response.OK(c, poll)
}

func (h *Handler) Vote(c *gin.Context) {
	var dto VoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	hash := VoterHash(c.ClientIP(), c.Request.UserAgent())
	if err := h.svc.Vote(c.Param("id"), dto.OptionID, hash); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "poll not found")
		case errors.Is(err, ErrUnknownOption):
			response.BadRequest(c, "option does not belong to this poll")
		case errors.Is(err, ErrAlreadyVoted):
			response.Conflict(c, "already voted on this poll")
		case errors.Is(err, ErrClosed):
			response.Conflict(c, "poll is closed")
		default:
			response.InternalError(c, "vote failed")
		}
		return
	}

	results, err := h.svc.Results(c.Param("id"))
	if err != nil {
		response.InternalError(c, "vote failed")
		return
	}
	response.Created(c, results)
}

func (h *Handler) Results(c *gin.Context) {
	results, err := h.svc.Results(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "poll not found")
			return
		}
		response.InternalError(c, "failed to tally results")
		return
	}
	response.OK(c, results)
}

func (h *Handler) Create(c *gin.Context) {
	var dto PollDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	poll, err := h.svc.Create(dto)
	if err != nil {
		response.InternalError(c, "failed to create poll")
		return
	}
	response.Created(c, poll)
}

func (h *Handler) Update(c *gin.Context) {
	var dto PollDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()

	poll, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "poll not found")
			return
		}
		response.InternalError(c, "failed to update poll")
		return
	}
	response.OK(c, poll)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "poll not found")
			return
		}
		response.InternalError(c, "failed to delete poll")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
