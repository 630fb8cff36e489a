package authHandler

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/middleware"
	contextPkg "AgeGenderDetector/pkg/context"
	"AgeGenderDetector/pkg/handlerUtil"
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"AgeGenderDetector/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AuthHandler) HandleSignup(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	browser := handlerUtil.WantsHTML(ctx)

	var req auth.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		if browser {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.MsgInvalidSignup, "/signup")
		}
		return errHandler.Handle(ctx, requestID, auth.ErrMalformedRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		if browser {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.MsgInvalidSignup, "/signup")
		}
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	user, err := h.authService.User().RegisterUser(c, req)
	if err != nil {
		if browser && errors.Is(err, auth.ErrDuplicateUser) {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.ErrDuplicateUser.Error(), "/signup")
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "signup")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		if browser {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.MsgSignupSuccess, "/login")
		}
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, auth.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
}

func (h *AuthHandler) HandleLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	browser := handlerUtil.WantsHTML(ctx)

	var req auth.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		if browser {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.ErrInvalidCredentials.Error(), "/login")
		}
		return errHandler.Handle(ctx, requestID, auth.ErrMalformedRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		if browser {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.ErrInvalidCredentials.Error(), "/login")
		}
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.authService.Auth().Login(c, req)
	if err != nil {
		if browser && errors.Is(err, auth.ErrInvalidCredentials) {
			return errHandler.HandleFlashRedirect(ctx, requestID, auth.ErrInvalidCredentials.Error(), "/login")
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "login")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		setSessionCookie(ctx, res.AccessToken, res.ExpiresAt)

		if browser {
			return ctx.Redirect("/detector", fiber.StatusFound)
		}
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AuthHandler) HandleLogout(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.authService.Auth().Logout(c, middleware.SessionID(ctx)); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "logout")
	}

	clearSessionCookie(ctx)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    contextPkg.GetUserID(c),
	}).Info("User logged out")

	if handlerUtil.WantsHTML(ctx) {
		return errHandler.HandleFlashRedirect(ctx, requestID, auth.MsgLoggedOut, "/")
	}
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, auth.MessageResponse{Message: auth.MsgLoggedOut})
}

func setSessionCookie(ctx *fiber.Ctx, token string, expiresAt time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     jwtPkg.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     jwtPkg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
