package quiz

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
	quizzes := rg.Group("/quizzes")
	{
		quizzes.GET("", h.List)
		quizzes.GET("/:id", h.Get)
		quizzes.POST("/:id/submit", h.Submit)

		admin := quizzes.Group("/admin", adminMW)
		{
			admin.GET("", h.AdminList)
			admin.POST("", h.Create)
			admin.GET("/:id", h.AdminGet)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
			admin.GET("/:id/submissions", h.Submissions)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	quizzes, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, "failed to list quizzes")
		return
	}
	response.OK(c, gin.H{"data": quizzes})
}

func (h *Handler) AdminList(c *gin.Context) {
	quizzes, err := h.svc.List(true)
	if err != nil {
		response.InternalError(c, "failed to list quizzes")
		return
	}
	response.OK(c, gin.H{"data": quizzes})
}

// Get serves the play view; answer keys stay hidden.
func (h *Handler) Get(c *gin.Context) {
	quiz, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "quiz not found")
			return
		}
		response.InternalError(c, "failed to fetch quiz")
		return
	}
	if !quiz.IsPublished {
		response.NotFoundMsg(c, "quiz not found")
		return
	}
	response.OK(c, toPublicQuiz(quiz))
}

func (h *Handler) AdminGet(c *gin.Context) {
	quiz, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "quiz not found")
			return
		}
		response.InternalError(c, "failed to fetch quiz")
		return
	}
	response.OK(c, quiz)
}

func (h *Handler) Submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	result, err := h.svc.Score(c.Param("id"), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "quiz not found")
		case errors.Is(err, ErrAnswerCount):
			response.BadRequest(c, "answer count does not match question count")
		default:
			response.InternalError(c, "scoring failed")
		}
		return
	}
	response.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var dto QuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	quiz, err := h.svc.Create(dto)
	if err != nil {
		response.InternalError(c, "failed to create quiz")
		return
	}
	response.Created(c, quiz)
}

func (h *Handler) Update(c *gin.Context) {
	var dto QuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.Normalize()
	if errs := dto.Validate(); !errs.OK() {
		response.ValidationFailed(c, errs)
		return
	}

	quiz, err := h.svc.Update(c.Param("id"), dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "quiz not found")
			return
		}
		response.InternalError(c, "failed to update quiz")
		return
	}
	response.OK(c, quiz)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "quiz not found")
			return
		}
		response.InternalError(c, "failed to delete quiz")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *Handler) Submissions(c *gin.Context) {
	subs, err := h.svc.Submissions(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "quiz not found")
			return
		}
		response.InternalError(c, "failed to list submissions")
		return
	}
	response.OK(c, gin.H{"data": subs, "total": len(subs)})
}
