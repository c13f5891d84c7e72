package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/infra/logger"
)

// KeyFunc extracts the value a limit is scoped to, e.g. the client IP.
type KeyFunc func(*gin.Context) (string, bool)

// RateLimitRule is a sliding-window limit.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    KeyFunc
}

// RateLimiter builds middlewares over a shared sliding-window store.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// RateLimitedResponse is the 429 body.
type RateLimitedResponse struct {
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
	RequestID  string `json:"request_id,omitempty"`
}

func NewRateLimiter(store port.RateLimitStore, lg *zap.Logger) *RateLimiter {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: lg, now: time.Now}
}

// WithClock replaces the clock used for window bounds.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPKey scopes a rule to the client address.
func ClientIPKey() KeyFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// Limit enforces rule. Store failures fail open so the limiter never takes the endpoint down.
func (rl *RateLimiter) Limit(rule RateLimitRule) gin.HandlerFunc {
	if rl == nil || rl.store == nil || rule.Key == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		scope, ok := rule.Key(c)
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", rule.Name, scope)
		decision, err := rl.evaluate(c, rule, key)
		if err != nil {
			rl.logger.Warn("rate limit check failed",
				zap.String("rule", rule.Name),
				zap.String("client", logger.MaskIP(scope)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		headers := c.Writer.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.reset.Unix(), 10))

		if !decision.allowed {
			retry := int(math.Ceil(decision.retryAfter.Seconds()))
			headers.Set("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, RateLimitedResponse{
				Message:    fmt.Sprintf("Too many requests. Try again in %d seconds.", retry),
				RetryAfter: retry,
				RequestID:  GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}

type decision struct {
	allowed    bool
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

func (rl *RateLimiter) evaluate(c *gin.Context, rule RateLimitRule, key string) (decision, error) {
	ctx := c.Request.Context()
	now := rl.now()

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return decision{}, err
	}
	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return decision{}, err
	}
	oldest, hasAttempts, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return decision{}, err
	}

	d := decision{allowed: true, reset: now.Add(rule.Window)}
	if hasAttempts {
		d.reset = oldest.Add(rule.Window)
	}
	d.retryAfter = d.reset.Sub(now)
	if d.retryAfter < 0 {
		d.retryAfter = 0
	}

	if count >= rule.Limit {
		d.allowed = false
		return d, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return decision{}, err
	}
	d.remaining = rule.Limit - count - 1
	return d, nil
}
