package authHandler

import (
	authService "AgeGenderDetector/internal/api/auth/service"
	"AgeGenderDetector/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware,
) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	srv.Get("/", h.HomePage)

	srv.Get("/signup", h.SignupPage)
	srv.Post("/signup", h.middleware.NewRateLimiter, h.HandleSignup)

	srv.Get("/login", h.LoginPage)
	srv.Post("/login", h.middleware.NewRateLimiter, h.HandleLogin)

	srv.Get("/logout", h.middleware.NewTokenMiddleware, h.HandleLogout)
	srv.Get("/detector", h.middleware.NewTokenMiddleware, h.DetectorPage)
	srv.Get("/profile", h.middleware.NewTokenMiddleware, h.HandleProfile)
}
