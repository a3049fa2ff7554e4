package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
)

type echoReplier struct {
	last dto.Update
}

func (e *echoReplier) Dispatch(_ context.Context, upd dto.Update) string {
	e.last = upd
	return "echo: " + upd.Text
}

func newWebhookRouter(d Replier, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", Webhook(d, secret))
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookDispatchesUpdate(t *testing.T) {
	replier := &echoReplier{}
	r := newWebhookRouter(replier, "")

	w := postWebhook(t, r, `{"user_id":42,"chat_id":7,"first_name":"María","text":"/estado"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "echo: /estado", resp["reply"])
	assert.Equal(t, int64(42), replier.last.UserID)
	assert.Equal(t, "María", replier.last.FirstName)
}

func TestWebhookRejectsMissingFields(t *testing.T) {
	r := newWebhookRouter(&echoReplier{}, "")

	w := postWebhook(t, r, `{"chat_id":7}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(t, r, `not json`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookSecretEnforced(t *testing.T) {
	r := newWebhookRouter(&echoReplier{}, "s3cret")

	w := postWebhook(t, r, `{"user_id":42,"text":"/estado"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postWebhook(t, r, `{"user_id":42,"text":"/estado"}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postWebhook(t, r, `{"user_id":42,"text":"/estado"}`, "s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
}
