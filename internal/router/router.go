// Package router assembles the ops HTTP surface: health check and the
// webhook transport adapter.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/config"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/handler"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/middleware"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/service"
)

func New(cfg *config.Config, d handler.Replier, api service.CashPilotAPI, started time.Time) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	r.GET("/health", handler.Health(api, started))

	r.POST("/webhook",
		middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute),
		handler.Webhook(d, cfg.WebhookSecret),
	)

	return r
}
