package auth

import (
	"errors"
	"time"

	"github.com/agorahq/core/internal/middleware"
	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/jwt"
	"github.com/agorahq/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const tokenTTL = 7 * 24 * time.Hour

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.GET("/status", h.Status)
		auth.POST("/setup", h.Setup)
		auth.POST("/login", h.Login)
		auth.GET("/whoami", authMW, h.Whoami)
	}
}

// Status tells the front-end whether first-run setup is still open.
func (h *Handler) Status(c *gin.Context) {
	initialized, err := h.svc.Initialized()
	if err != nil {
		response.InternalError(c, "failed to check setup status")
		return
	}
	response.OK(c, gin.H{"initialized": initialized})
}

func (h *Handler) Setup(c *gin.Context) {
	var dto SetupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Setup(dto)
	if err != nil {
		if errors.Is(err, ErrAlreadyInitialized) {
			response.Conflict(c, "an account already exists")
			return
		}
		response.InternalError(c, "setup failed")
		return
	}
	response.Created(c, toUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(dto, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, "login failed")
		return
	}

	token, err := jwt.Sign(user.ID, user.Role, tokenTTL)
	if err != nil {
		response.InternalError(c, "token signing failed")
		return
	}

	response.OK(c, loginResponse{
		Token:   token,
		Expires: time.Now().Add(tokenTTL),
		User:    toUserResponse(user),
	})
}

func (h *Handler) Whoami(c *gin.Context) {
	user, err := h.svc.Get(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, "failed to load user")
		return
	}
	response.OK(c, toUserResponse(user))
}

func toUserResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Mail:     u.Mail,
		Role:     u.Role,
	}
}
