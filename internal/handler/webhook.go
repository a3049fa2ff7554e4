package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/apierror"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
)

// Replier is the dispatcher side the webhook needs.
type Replier interface {
	Dispatch(ctx context.Context, upd dto.Update) string
}

// Webhook accepts one chat update and returns the rendered reply. When a
// secret is configured, requests must carry it in X-Webhook-Secret.
func Webhook(d Replier, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" {
			got := c.GetHeader("X-Webhook-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					apierror.New(http.StatusUnauthorized, apierror.CodeValidation, "invalid webhook secret"))
				return
			}
		}

		var upd dto.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest,
				apierror.New(http.StatusBadRequest, apierror.CodeValidation, "invalid update: "+err.Error()))
			return
		}
		if upd.UserID == 0 || upd.Text == "" {
			c.JSON(http.StatusBadRequest,
				apierror.New(http.StatusBadRequest, apierror.CodeValidation, "user_id and text are required"))
			return
		}

		reply := d.Dispatch(c.Request.Context(), upd)
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
