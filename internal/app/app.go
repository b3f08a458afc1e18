package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agorahq/core/internal/config"
	"github.com/agorahq/core/internal/database"
	"github.com/agorahq/core/internal/middleware"
	"github.com/agorahq/core/internal/pkg/jwt"
	"github.com/agorahq/core/internal/pkg/mail"
	"github.com/agorahq/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App bundles the HTTP server with its backing services.
type App struct {
	cfg    *config.AppConfig
	db     *gorm.DB
	rdb    *redis.Client
	mailer *mail.Sender
	log    *zap.Logger
	server *http.Server
}

// New connects the backing services and builds the router.
func New(cfg *config.AppConfig, log *zap.Logger) (*App, error) {
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, err
	}

	// Redis only backs rate limiting; the API runs without it.
	rdb, err := redis.Connect(cfg.Redis.URLValue())
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	mailer := mail.New(mail.Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ReplyTo:   cfg.Mail.ReplyTo,
		UseResend: cfg.Mail.UseResend,
		ResendKey: cfg.Mail.ResendKey,
	})

	app := &App{
		cfg:    cfg,
		db:     db,
		rdb:    rdb,
		mailer: mailer,
		log:    log,
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(cors.New(app.corsConfig()))
	engine.Use(middleware.OptionalAuth())
	if rdb != nil {
		engine.Use(middleware.RateLimit(rdb.Raw()))
	}

	app.registerRoutes(engine)

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return app, nil
}

// Run serves until the context is cancelled, then drains connections.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// DB exposes the database handle.
func (a *App) DB() *gorm.DB { return a.db }

func (a *App) corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(a.cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = a.cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
