package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/apierror"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

// CashPilotClient is the HTTP client for the CashPilot backend API.
// Every failure surfaces as one *apierror.Error: HTTP rejections carry the
// backend's status and machine code, transport failures carry status 0 so
// callers can tell "rejected" from "unreachable".
type CashPilotClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	breaker *CircuitBreaker

	mu         sync.Mutex
	httpClient *http.Client
}

// CashPilotOption configures the client at construction.
type CashPilotOption func(*CashPilotClient)

// WithTimeout overrides the default 30s per-request timeout.
func WithTimeout(d time.Duration) CashPilotOption {
	return func(c *CashPilotClient) { c.timeout = d }
}

// WithCircuitBreaker makes the client fast-fail while the backend is down.
// The breaker never retries a request, so lifecycle transitions stay
// at-most-once.
func WithCircuitBreaker(cb *CircuitBreaker) CashPilotOption {
	return func(c *CashPilotClient) { c.breaker = cb }
}

func NewCashPilotClient(baseURL, apiKey string, opts ...CashPilotOption) *CashPilotClient {
	c := &CashPilotClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the underlying HTTP client. Idempotent — calling it
// again while connected is a no-op. Requests made before Connect trigger it
// lazily.
func (c *CashPilotClient) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
		log.Info().Str("api_url", c.baseURL).Msg("connected to CashPilot API")
	}
}

// Close releases idle connections. Idempotent.
func (c *CashPilotClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
		log.Info().Msg("disconnected from CashPilot API")
	}
}

func (c *CashPilotClient) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
		log.Info().Str("api_url", c.baseURL).Msg("connected to CashPilot API")
	}
	return c.httpClient
}

// OpenSession opens a new cash session. The backend answers 409/CONFLICT when
// the business already has one open.
func (c *CashPilotClient) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*model.CashSession, error) {
	log.Info().Str("business_id", req.BusinessID).Msg("opening cash session")
	var sess model.CashSession
	if err := c.do(ctx, http.MethodPost, "/cash-sessions", req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CloseSession closes an open session and returns it with the backend-computed
// reconciliation fields (cash_sales, total_sales, difference).
func (c *CashPilotClient) CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest) (*model.CashSession, error) {
	log.Info().Str("session_id", sessionID).Msg("closing cash session")
	var sess model.CashSession
	if err := c.do(ctx, http.MethodPut, "/cash-sessions/"+url.PathEscape(sessionID), req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetSession fetches one session by id.
func (c *CashPilotClient) GetSession(ctx context.Context, sessionID string) (*model.CashSession, error) {
	var sess model.CashSession
	if err := c.do(ctx, http.MethodGet, "/cash-sessions/"+url.PathEscape(sessionID), nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessions lists sessions in backend order — pagination is pass-through
// and the client never reorders.
func (c *CashPilotClient) ListSessions(ctx context.Context, businessID string, skip, limit int) ([]model.CashSession, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	if businessID != "" {
		q.Set("business_id", businessID)
	}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var sessions []model.CashSession
	if err := c.do(ctx, http.MethodGet, "/cash-sessions?"+q.Encode(), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetBusiness fetches one business by id.
func (c *CashPilotClient) GetBusiness(ctx context.Context, businessID string) (*model.Business, error) {
	var biz model.Business
	if err := c.do(ctx, http.MethodGet, "/businesses/"+url.PathEscape(businessID), nil, &biz); err != nil {
		return nil, err
	}
	return &biz, nil
}

// HealthCheck pings the backend.
func (c *CashPilotClient) HealthCheck(ctx context.Context) (*model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do routes the request through the circuit breaker when one is configured.
// Only transport failures count against the breaker — an HTTP rejection means
// the backend is alive.
func (c *CashPilotClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	if c.breaker == nil {
		return c.roundTrip(ctx, method, endpoint, body, out)
	}

	var reqErr error
	err := c.breaker.Execute(func() error {
		reqErr = c.roundTrip(ctx, method, endpoint, body, out)
		if e, ok := apierror.As(reqErr); ok && e.Status == 0 {
			return reqErr
		}
		return nil
	})
	if errors.Is(err, ErrBreakerOpen) {
		return apierror.New(0, apierror.CodeConnection, "CashPilot API unavailable (circuit open)")
	}
	if err != nil {
		return err
	}
	return reqErr
}

func (c *CashPilotClient) roundTrip(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cashpilot: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("cashpilot: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		log.Error().Str("method", method).Str("endpoint", endpoint).Err(err).Msg("cashpilot request failed")
		return apierror.NewConnection(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierror.NewConnection(err)
	}

	log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("cashpilot request")

	if resp.StatusCode >= 400 {
		return apierror.FromResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apierror.New(resp.StatusCode, apierror.CodeUnknown, "unexpected response body: "+err.Error())
		}
	}
	return nil
}
