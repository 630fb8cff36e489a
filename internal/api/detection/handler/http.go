package detectionHandler

import (
	detectionService "AgeGenderDetector/internal/api/detection/service"
	"AgeGenderDetector/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	srv.Post("/process_frame", h.middleware.NewTokenMiddleware, h.middleware.NewFrameRateLimiter, h.ProcessFrame)

	srv.Use("/ws/detect", h.middleware.NewTokenMiddleware, wsMiddleware)
	srv.Get("/ws/detect", websocket.New(h.HandleWebSocket))
}
