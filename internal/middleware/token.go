package middleware

import (
	"AgeGenderDetector/internal/api/auth"
	contextPkg "AgeGenderDetector/pkg/context"
	"AgeGenderDetector/pkg/handlerUtil"
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"AgeGenderDetector/pkg/redis"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	SessionIDKey = "session_id"
	loginPath    = "/login"
)

type tokenMiddleware struct {
	sessions redis.ISessionStore
	users    UserLoader
}

func newTokenMiddleware(sessions redis.ISessionStore, users UserLoader) *tokenMiddleware {
	return &tokenMiddleware{
		sessions: sessions,
		users:    users,
	}
}

// NewTokenMiddleware admits requests carrying a live session. Browsers are
// sent to the login page, API clients get a 401.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)
	logger := m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	})

	token, err := jwtPkg.TokenFromRequest(ctx)
	if err != nil {
		logger.WithField("error", err.Error()).Debug("No session token")
		return m.unauthorized(ctx, requestID)
	}

	claims, err := jwtPkg.Verify(token, jwtPkg.AccessTokenSecret)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Token verification failed")
		return m.unauthorized(ctx, requestID)
	}

	userID, _ := claims["id"].(string)
	sessionID, _ := claims["sid"].(string)
	if userID == "" || sessionID == "" {
		logger.Warn("Token claims are missing required fields")
		return m.unauthorized(ctx, requestID)
	}

	c := contextPkg.FromFiberCtx(ctx)

	owner, err := m.token.sessions.GetSession(c, sessionID)
	if err != nil {
		if !errors.Is(err, redis.ErrSessionNotFound) {
			logger.WithField("error", err.Error()).Error("Session lookup failed")
		}
		return m.unauthorized(ctx, requestID)
	}
	if owner != userID {
		logger.Warn("Session does not belong to token subject")
		return m.unauthorized(ctx, requestID)
	}

	user, err := m.token.users.LoadUser(c, userID)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Session user could not be loaded")
		return m.unauthorized(ctx, requestID)
	}

	ctx.Locals("user", user.LoginData())
	ctx.Locals(SessionIDKey, sessionID)
	ctx.SetUserContext(contextPkg.WithUserID(ctx.UserContext(), user.ID))

	logger.WithField("user_id", user.ID).Debug("Authentication successful")
	return ctx.Next()
}

func (m *middleware) unauthorized(ctx *fiber.Ctx, requestID string) error {
	if handlerUtil.WantsHTML(ctx) {
		return ctx.Redirect(loginPath, fiber.StatusFound)
	}
	return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, auth.ErrUnauthorized.Error())
}

// SessionID returns the id of the session admitted by NewTokenMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(SessionIDKey).(string)
	return sid
}
