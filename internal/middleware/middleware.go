package middleware

import (
	"AgeGenderDetector/internal/entity"
	"AgeGenderDetector/pkg/redis"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// UserLoader resolves the account behind a session.
type UserLoader interface {
	LoadUser(ctx context.Context, id string) (entity.User, error)
}

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewFrameRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	frameLimitter       *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

type Option func(*middleware)

// WithRateLimit sets the per IP budget for credential endpoints.
func WithRateLimit(reqRate rate.Limit, burstSize int) Option {
	return func(m *middleware) {
		m.rateLimitter = newRateLimiter(reqRate, burstSize)
	}
}

// WithFrameRateLimit sets the per IP budget for frame submissions.
func WithFrameRateLimit(reqRate rate.Limit, burstSize int) Option {
	return func(m *middleware) {
		m.frameLimitter = newRateLimiter(reqRate, burstSize)
	}
}

func New(logger *logrus.Logger, sessions redis.ISessionStore, users UserLoader, opts ...Option) Middleware {
	m := &middleware{
		token:               newTokenMiddleware(sessions, users),
		rateLimitter:        newRateLimiter(5, 10),
		frameLimitter:       newRateLimiter(30, 60),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
