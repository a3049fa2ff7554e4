package repository

import (
	"context"
	"sync"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

// MemoryLinkageRepository keeps linkages in a mutex-guarded map. Default for
// deployments without Redis, and for tests. Not durable — a restart loses all
// session tracking.
type MemoryLinkageRepository struct {
	mu    sync.Mutex
	links map[int64]model.Linkage
}

func NewMemoryLinkageRepository() *MemoryLinkageRepository {
	return &MemoryLinkageRepository{links: make(map[int64]model.Linkage)}
}

func (r *MemoryLinkageRepository) Get(_ context.Context, userID int64) (*model.Linkage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[userID]
	if !ok {
		return nil, nil
	}
	// Copy out so callers never alias the stored record
	return &link, nil
}

func (r *MemoryLinkageRepository) Register(_ context.Context, link *model.Linkage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.UserID] = *link
	return nil
}

func (r *MemoryLinkageRepository) SetOpenSession(_ context.Context, userID int64, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[userID]
	if !ok {
		return ErrNotRegistered
	}
	link.OpenSessionID = sessionID
	r.links[userID] = link
	return nil
}

func (r *MemoryLinkageRepository) ClearOpenSession(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[userID]
	if !ok {
		return ErrNotRegistered
	}
	link.OpenSessionID = ""
	r.links[userID] = link
	return nil
}
