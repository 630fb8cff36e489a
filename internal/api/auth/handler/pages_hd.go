package authHandler

import (
	"AgeGenderDetector/pkg/flash"
	jwtPkg "AgeGenderDetector/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

// page renders a view with the pending flash message and, when present, the
// session user.
func (h *AuthHandler) page(ctx *fiber.Ctx, view string) error {
	data := fiber.Map{
		"Flash": flash.Pop(ctx),
	}
	if user, err := jwtPkg.GetUserLoginData(ctx); err == nil {
		data["User"] = user
	}

	return ctx.Render(view, data, layout)
}

func (h *AuthHandler) HomePage(ctx *fiber.Ctx) error {
	return h.page(ctx, "home")
}

func (h *AuthHandler) SignupPage(ctx *fiber.Ctx) error {
	return h.page(ctx, "signup")
}

func (h *AuthHandler) LoginPage(ctx *fiber.Ctx) error {
	return h.page(ctx, "login")
}

func (h *AuthHandler) DetectorPage(ctx *fiber.Ctx) error {
	return h.page(ctx, "detector")
}
