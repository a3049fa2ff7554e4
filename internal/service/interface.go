package service

import (
	"context"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

// CashPilotAPI is the slice of the backend client the session service needs.
// infra.CashPilotClient satisfies it; tests substitute a fake.
type CashPilotAPI interface {
	OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*model.CashSession, error)
	CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest) (*model.CashSession, error)
	GetSession(ctx context.Context, sessionID string) (*model.CashSession, error)
	ListSessions(ctx context.Context, businessID string, skip, limit int) ([]model.CashSession, error)
	GetBusiness(ctx context.Context, businessID string) (*model.Business, error)
	HealthCheck(ctx context.Context) (*model.Health, error)
}

// SessionService owns the open/close lifecycle semantics per chat user.
// Every method validates its input before touching the network and returns
// either a structured result or a typed *apierror.Error.
type SessionService interface {
	// Register links the user to a business (the /start flow). businessID may
	// be empty when a default business is configured.
	Register(ctx context.Context, userID int64, businessID string) (*dto.RegisterResult, error)
	// Open opens a session from tokenized args: <initial_cash> [shift_hours].
	Open(ctx context.Context, userID int64, cashierName string, args []string) (*dto.OpenResult, error)
	// Close closes the tracked session from tokenized args:
	// <final_cash> <envelope_amount>.
	Close(ctx context.Context, userID int64, args []string) (*dto.CloseResult, error)
	// Status fetches the tracked session.
	Status(ctx context.Context, userID int64) (*dto.StatusResult, error)
	// Business fetches the linked business record.
	Business(ctx context.Context, userID int64) (*dto.BusinessResult, error)
	// History lists recent sessions for the linked business, backend order.
	History(ctx context.Context, userID int64, limit int) (*dto.HistoryResult, error)
}
