package authHandler

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/pkg/handlerUtil"
	jwtPkg "AgeGenderDetector/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) HandleProfile(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, auth.ErrUnauthorized.Error())
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, auth.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
