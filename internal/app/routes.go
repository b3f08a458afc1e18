package app

import (
	"net/http"

	"github.com/agorahq/core/internal/middleware"
	"github.com/agorahq/core/internal/modules/auth"
	"github.com/agorahq/core/internal/modules/content/category"
	"github.com/agorahq/core/internal/modules/content/post"
	"github.com/agorahq/core/internal/modules/engagement/event"
	"github.com/agorahq/core/internal/modules/engagement/petition"
	"github.com/agorahq/core/internal/modules/engagement/poll"
	"github.com/agorahq/core/internal/modules/engagement/quiz"
	"github.com/agorahq/core/internal/modules/newsletter/campaign"
	"github.com/agorahq/core/internal/modules/newsletter/subscriber"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	authMW := middleware.Auth()
	adminMW := middleware.RequireAdmin()

	auth.NewHandler(auth.NewService(a.db)).
		RegisterRoutes(api, authMW)

	category.NewHandler(category.NewService(a.db)).
		RegisterRoutes(api, adminMW)
	post.NewHandler(post.NewService(a.db)).
		RegisterRoutes(api, adminMW)

	event.NewHandler(event.NewService(a.db), a.mailer, a.cfg, a.log).
		RegisterRoutes(api, adminMW)
	petition.NewHandler(petition.NewService(a.db)).
		RegisterRoutes(api, adminMW)
	poll.NewHandler(poll.NewService(a.db)).
		RegisterRoutes(api, adminMW)
	quiz.NewHandler(quiz.NewService(a.db)).
		RegisterRoutes(api, adminMW)

	subscriber.NewHandler(subscriber.NewService(a.db), a.mailer, a.cfg, a.log).
		RegisterRoutes(api, adminMW)
	campaign.NewHandler(campaign.NewService(a.db, a.mailer, a.cfg, a.log)).
		RegisterRoutes(api, adminMW)
}
