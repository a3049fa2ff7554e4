package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/service"
)

// Health reports bot liveness and backend reachability. Degrades to 503 when
// the CashPilot API cannot be reached — orchestrators use this to restart or
// alert, so it must never hang (3s cap).
func Health(api service.CashPilotAPI, started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		backendStatus := "connected"
		if _, err := api.HealthCheck(ctx); err != nil {
			backendStatus = "error"
		}

		status := http.StatusOK
		if backendStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":             status == http.StatusOK,
			"backend":        backendStatus,
			"uptime_seconds": time.Since(started).Seconds(),
		})
	}
}
