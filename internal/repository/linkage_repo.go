package repository

import (
	"context"
	"errors"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

// ErrNotRegistered is returned when a session operation targets a user that
// never ran /start.
var ErrNotRegistered = errors.New("user not registered")

// LinkageRepository stores the per-user session linkage: which business a
// chat user belongs to and which open session they are tracking. Implementations
// must keep read-modify-write on a single user's record race-free — two rapid
// commands from the same user may arrive concurrently.
type LinkageRepository interface {
	// Get returns the linkage for userID, or (nil, nil) when none exists.
	Get(ctx context.Context, userID int64) (*model.Linkage, error)
	// Register creates or replaces the linkage. Any tracked session is reset.
	Register(ctx context.Context, link *model.Linkage) error
	// SetOpenSession records the session the user is tracking.
	SetOpenSession(ctx context.Context, userID int64, sessionID string) error
	// ClearOpenSession drops the tracked session, keeping the business link.
	ClearOpenSession(ctx context.Context, userID int64) error
}
