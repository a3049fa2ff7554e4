package infra

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/apierror"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
)

func TestOpenSessionSendsDecimalStringAndBearer(t *testing.T) {
	var gotBody []byte
	var gotAuth, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cash-sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{
			"id": "abc123-xyz",
			"business_id": "biz123",
			"status": "OPEN",
			"cashier_name": "María López",
			"initial_cash": "1200000.00",
			"opened_at": "2025-11-03T08:00:00"
		}`)
	}))
	defer srv.Close()

	c := NewCashPilotClient(srv.URL, "test-key")
	sess, err := c.OpenSession(context.Background(), dto.OpenSessionRequest{
		BusinessID:  "biz123",
		CashierName: "María López",
		InitialCash: decimal.RequireFromString("1200000.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	// Amounts cross the wire as exact decimal strings, never binary floats
	assert.Contains(t, string(gotBody), `"initial_cash":"1200000.00"`)

	assert.Equal(t, "abc123-xyz", sess.ID)
	assert.True(t, sess.IsOpen())
	assert.Equal(t, "1200000.00", sess.InitialCash.String(), "amount not mutated in transit")
}

func TestCloseSessionPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/cash-sessions/sess-1", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1200000", body["final_cash"])
		assert.Equal(t, "300000", body["envelope_amount"])
		assert.Equal(t, "0", body["credit_card_total"])

		io.WriteString(w, `{
			"id": "sess-1",
			"business_id": "biz123",
			"status": "CLOSED",
			"cashier_name": "María López",
			"initial_cash": "500000.00",
			"final_cash": "1200000.00",
			"cash_sales": "1000000.00",
			"total_sales": "2400000.00",
			"difference": "1400000.00",
			"opened_at": "2025-11-03T08:00:00",
			"closed_at": "2025-11-03T16:00:00"
		}`)
	}))
	defer srv.Close()

	c := NewCashPilotClient(srv.URL, "")
	sess, err := c.CloseSession(context.Background(), "sess-1", dto.CloseSessionRequest{
		FinalCash:         decimal.RequireFromString("1200000"),
		EnvelopeAmount:    decimal.RequireFromString("300000"),
		CreditCardTotal:   decimal.Zero,
		DebitCardTotal:    decimal.Zero,
		BankTransferTotal: decimal.Zero,
	})
	require.NoError(t, err)

	require.NotNil(t, sess.Difference)
	assert.Equal(t, "1400000.00", sess.Difference.String())
	require.NotNil(t, sess.ClosedAt)
	assert.Equal(t, "2025-11-03T16:00:00", *sess.ClosedAt)
}

func TestListSessionsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "biz123", r.URL.Query().Get("business_id"))
		assert.Equal(t, "10", r.URL.Query().Get("skip"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		io.WriteString(w, `[{"id":"s1","business_id":"biz123","status":"CLOSED","cashier_name":"A","initial_cash":"100","opened_at":"2025-11-03T08:00:00"}]`)
	}))
	defer srv.Close()

	c := NewCashPilotClient(srv.URL, "")
	sessions, err := c.ListSessions(context.Background(), "biz123", 10, 5)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		// No Authorization header when no key is configured
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `{"status":"ok","uptime_seconds":123.4}`)
	}))
	defer srv.Close()

	c := NewCashPilotClient(srv.URL, "")
	h, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.InDelta(t, 123.4, h.UptimeSeconds, 0.001)
}

// ── Error normalization ──────────────────────────────────────────────────────

func TestErrorNormalization(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantMsg    string
		wantKind   apierror.Kind
		wantStatus int
	}{
		{
			name:       "conflict with code",
			status:     http.StatusConflict,
			body:       `{"message":"session already open","code":"CONFLICT"}`,
			wantCode:   apierror.CodeConflict,
			wantMsg:    "session already open",
			wantKind:   apierror.KindConflict,
			wantStatus: 409,
		},
		{
			name:       "detail fallback, kind from status",
			status:     http.StatusNotFound,
			body:       `{"detail":"session not found"}`,
			wantCode:   apierror.CodeUnknown,
			wantMsg:    "session not found",
			wantKind:   apierror.KindNotFound,
			wantStatus: 404,
		},
		{
			name:       "invalid state code on 400",
			status:     http.StatusBadRequest,
			body:       `{"message":"session is closed","code":"INVALID_STATE"}`,
			wantCode:   apierror.CodeInvalidState,
			wantMsg:    "session is closed",
			wantKind:   apierror.KindInvalidState,
			wantStatus: 400,
		},
		{
			name:       "non-JSON body",
			status:     http.StatusInternalServerError,
			body:       "upstream exploded",
			wantCode:   apierror.CodeUnknown,
			wantMsg:    "upstream exploded",
			wantKind:   apierror.KindUnknown,
			wantStatus: 500,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewCashPilotClient(srv.URL, "")
			_, err := c.GetSession(context.Background(), "sess-1")
			require.Error(t, err)

			e, ok := apierror.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.wantStatus, e.Status)
			assert.Equal(t, tc.wantCode, e.Code)
			assert.Equal(t, tc.wantMsg, e.Message)
			assert.Equal(t, tc.wantKind, e.Kind())
		})
	}
}

func TestTransportFailureIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	c := NewCashPilotClient(url, "")
	_, err := c.HealthCheck(context.Background())
	require.Error(t, err)

	e, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 0, e.Status, "backend unreachable must be distinguishable from rejected")
	assert.Equal(t, apierror.CodeConnection, e.Code)
	assert.Equal(t, apierror.KindConnection, e.Kind())
}

func TestConnectIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"ok","uptime_seconds":1}`)
	}))
	defer srv.Close()

	c := NewCashPilotClient(srv.URL, "")
	c.Connect()
	first := c.client()
	c.Connect()
	assert.Same(t, first, c.client(), "second Connect must not replace the session")

	c.Close()
	c.Close() // double close is safe

	// Lazy reconnect on next use
	_, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
}

func TestCircuitBreakerFastFailsWhenOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Hour})
	c := NewCashPilotClient(url, "", WithCircuitBreaker(cb))

	_, err := c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Equal(t, BreakerOpen, cb.State())

	_, err = c.HealthCheck(context.Background())
	require.Error(t, err)
	e, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindConnection, e.Kind(), "fast-fail still reads as a connection failure")
}

func TestHTTPRejectionDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"already open","code":"CONFLICT"}`)
	}))
	defer srv.Close()

	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Hour})
	c := NewCashPilotClient(srv.URL, "", WithCircuitBreaker(cb))

	_, err := c.OpenSession(context.Background(), dto.OpenSessionRequest{InitialCash: decimal.RequireFromString("100")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Equal(t, BreakerClosed, cb.State(), "a live backend rejecting requests is not an outage")
}
