package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultRateLimitKeyPrefix = "detoxgate:ratelimit"

var clientIPHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

type RateLimitOpts struct {
	TimeProvider func() time.Time
	UuidProvider func() uuid.UUID
}

type rateLimitMiddleware struct {
	logger       *logrus.Logger
	redis        redis.Cmdable
	cfg          RateLimitConfig
	timeProvider func() time.Time
	uuidProvider func() uuid.UUID
}

// NewRateLimitMiddleware enforces a sliding window of cfg.Limit requests per
// client IP, kept as a sorted set in redis. Redis failures let the request
// through.
func NewRateLimitMiddleware(
	logger *logrus.Logger,
	client redis.Cmdable,
	cfg RateLimitConfig,
	opts *RateLimitOpts,
) Middleware {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultRateLimitKeyPrefix
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	m := &rateLimitMiddleware{
		logger:       logger,
		redis:        client,
		cfg:          cfg,
		timeProvider: time.Now,
		uuidProvider: uuid.New,
	}
	if opts != nil && opts.TimeProvider != nil {
		m.timeProvider = opts.TimeProvider
	}
	if opts != nil && opts.UuidProvider != nil {
		m.uuidProvider = opts.UuidProvider
	}
	return m
}

func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.Limit <= 0 || c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		ctx := c.UserContext()
		ip := clientIP(c)
		key := fmt.Sprintf("%s:%s", m.cfg.KeyPrefix, ip)
		now := m.timeProvider()
		windowStart := now.Add(-m.cfg.Window).Unix()

		count, err := m.redis.ZCount(ctx, key,
			strconv.FormatInt(windowStart, 10),
			strconv.FormatInt(now.Unix(), 10)).Result()
		if err != nil {
			m.logger.WithError(err).WithField("ip", ip).Warn("rate limit lookup failed")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.cfg.Limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(int64(m.cfg.Limit)-count-1, 0), 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(m.cfg.Window).Unix(), 10))

		if count >= int64(m.cfg.Limit) {
			m.logger.WithFields(logrus.Fields{
				"ip":    ip,
				"count": count,
				"limit": m.cfg.Limit,
			}).Debug("rate limit exceeded")
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(m.cfg.Window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}

		member := fmt.Sprintf("%d:%s", now.Unix(), m.uuidProvider().String())
		pipe := m.redis.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now.Unix()), Member: member})
		pipe.Expire(ctx, key, m.cfg.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.WithError(err).WithField("ip", ip).Warn("rate limit update failed")
		}
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	for _, header := range clientIPHeaders {
		if v := c.Get(header); v != "" {
			first, _, _ := strings.Cut(v, ",")
			return strings.TrimSpace(first)
		}
	}
	return c.IP()
}
