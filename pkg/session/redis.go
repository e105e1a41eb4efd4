package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/naveenspark/webook/pkg/domain"
)

const defaultRedisTimeout = 2 * time.Second

// Redis is a Store that keeps the session under two keys,
// <prefix>:token and <prefix>:userId, with no expiry.
type Redis struct {
	rdb     redis.UniversalClient
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

// NewRedis returns a Redis store. An empty prefix defaults to "webook:session".
func NewRedis(rdb redis.UniversalClient, prefix string, log *zap.Logger) *Redis {
	if prefix == "" {
		prefix = "webook:session"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{rdb: rdb, prefix: prefix, timeout: defaultRedisTimeout, log: log}
}

func (r *Redis) key(name string) string {
	return r.prefix + ":" + name
}

func (r *Redis) Get() domain.Session {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	vals, err := r.rdb.MGet(ctx, r.key(KeyToken), r.key(KeyUserID)).Result()
	if err != nil {
		r.log.Warn("session read failed", zap.String("prefix", r.prefix), zap.Error(err))
		return domain.Session{}
	}
	var s domain.Session
	if v, ok := vals[0].(string); ok {
		s.Token = v
	}
	if v, ok := vals[1].(string); ok {
		s.UserID = v
	}
	return s
}

func (r *Redis) SetToken(token string) error {
	return r.set(KeyToken, token)
}

func (r *Redis) SetUserID(id string) error {
	return r.set(KeyUserID, id)
}

func (r *Redis) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.rdb.Del(ctx, r.key(KeyToken), r.key(KeyUserID)).Err(); err != nil {
		return fmt.Errorf("session.Redis.Clear: %w", err)
	}
	return nil
}

func (r *Redis) set(name, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.rdb.Set(ctx, r.key(name), value, 0).Err(); err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("session.Redis: set %s: %w", name, err)
	}
	return nil
}
