package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

const (
	fieldBusinessID   = "business_id"
	fieldBusinessName = "business_name"
	fieldOpenSession  = "open_session_id"
)

// RedisLinkageRepository backs the linkage store with Redis hashes so session
// tracking survives bot restarts. One hash per user, keyed linkage:<user_id>.
type RedisLinkageRepository struct {
	rdb *redis.Client
}

func NewRedisLinkageRepository(rdb *redis.Client) *RedisLinkageRepository {
	return &RedisLinkageRepository{rdb: rdb}
}

func linkageKey(userID int64) string {
	return fmt.Sprintf("linkage:%d", userID)
}

func (r *RedisLinkageRepository) Get(ctx context.Context, userID int64) (*model.Linkage, error) {
	fields, err := r.rdb.HGetAll(ctx, linkageKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &model.Linkage{
		UserID:        userID,
		BusinessID:    fields[fieldBusinessID],
		BusinessName:  fields[fieldBusinessName],
		OpenSessionID: fields[fieldOpenSession],
	}, nil
}

func (r *RedisLinkageRepository) Register(ctx context.Context, link *model.Linkage) error {
	return r.rdb.HSet(ctx, linkageKey(link.UserID),
		fieldBusinessID, link.BusinessID,
		fieldBusinessName, link.BusinessName,
		fieldOpenSession, "",
	).Err()
}

// SetOpenSession updates the tracked session inside a WATCH transaction so
// two rapid commands from the same user cannot interleave their writes.
func (r *RedisLinkageRepository) SetOpenSession(ctx context.Context, userID int64, sessionID string) error {
	return r.setField(ctx, userID, sessionID)
}

func (r *RedisLinkageRepository) ClearOpenSession(ctx context.Context, userID int64) error {
	return r.setField(ctx, userID, "")
}

func (r *RedisLinkageRepository) setField(ctx context.Context, userID int64, sessionID string) error {
	key := linkageKey(userID)
	return r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotRegistered
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldOpenSession, sessionID)
			return nil
		})
		return err
	}, key)
}
