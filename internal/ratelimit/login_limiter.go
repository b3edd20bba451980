package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter counts failed logins per email in Redis. Once an email reaches
// maxAttempts failures inside the window it is locked until the counter expires.
// Redis errors fail open: logins are allowed and a warning is logged.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginLimiter creates a limiter. A nil client disables limiting.
func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
	}
}

func loginKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", strings.ToLower(strings.TrimSpace(email)))
}

// Allowed reports whether another attempt may be made for email.
func (l *LoginLimiter) Allowed(ctx context.Context, email string) bool {
	if l.rdb == nil || l.maxAttempts <= 0 {
		return true
	}
	count, err := l.rdb.Get(ctx, loginKey(email)).Int()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		l.logger.Warn("login limiter unavailable, allowing attempt", zap.Error(err))
		return true
	}
	return count < l.maxAttempts
}

// RecordFailure increments the failure counter, starting the window on the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l.rdb == nil || l.maxAttempts <= 0 {
		return
	}
	key := loginKey(email)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		l.logger.Warn("login limiter failed to record attempt", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l.rdb == nil {
		return
	}
	if err := l.rdb.Del(ctx, loginKey(email)).Err(); err != nil {
		l.logger.Warn("login limiter failed to reset", zap.Error(err))
	}
}
