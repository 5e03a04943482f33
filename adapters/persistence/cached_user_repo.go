package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const userCacheKeyPrefix = "identity:user:"

// cachedUserRepo caches FindByID: misses read through and Save writes
// through. Email lookups always go to the store because they guard
// uniqueness and login.
type cachedUserRepo struct {
	next   user.Repository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedUserRepo(next user.Repository, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) user.Repository {
	return &cachedUserRepo{next: next, rdb: rdb, ttl: ttl, logger: log}
}

func userCacheKey(id uuid.UUID) string {
	return userCacheKeyPrefix + id.String()
}

func (r *cachedUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *cachedUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := userCacheKey(id)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec userRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			if u, err := rec.toDomain(); err == nil {
				return u, nil
			}
		}
		r.logger.Warn("Dropping unreadable cached user", zap.String("key", key))
		r.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Redis read failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// SetNX so a read that raced a Save cannot replace the newer entry.
	if payload, err := json.Marshal(toUserRecord(u)); err == nil {
		if err := r.rdb.SetNX(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("Redis write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return u, nil
}

func (r *cachedUserRepo) Create(ctx context.Context, u *user.User) error {
	return r.next.Create(ctx, u)
}

// Save writes the stored version through to the cache.
func (r *cachedUserRepo) Save(ctx context.Context, u *user.User) error {
	if err := r.next.Save(ctx, u); err != nil {
		r.evict(ctx, u.ID)
		return err
	}

	key := userCacheKey(u.ID)
	payload, err := json.Marshal(toUserRecord(u))
	if err != nil {
		r.evict(ctx, u.ID)
		return nil
	}
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis write failed", zap.String("key", key), zap.Error(err))
		r.evict(ctx, u.ID)
	}
	return nil
}

func (r *cachedUserRepo) evict(ctx context.Context, id uuid.UUID) {
	if err := r.rdb.Del(ctx, userCacheKey(id)).Err(); err != nil {
		r.logger.Warn("Redis delete failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}
