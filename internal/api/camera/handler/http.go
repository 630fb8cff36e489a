package cameraHandler

import (
	cameraService "AgeGenderDetector/internal/api/camera/service"
	"AgeGenderDetector/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CameraHandler struct {
	log           *logrus.Logger
	middleware    middleware.Middleware
	cameraService cameraService.ICameraService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	cs cameraService.ICameraService,
) *CameraHandler {
	return &CameraHandler{
		log:           log,
		middleware:    middleware,
		cameraService: cs,
	}
}

func (h *CameraHandler) Start(srv fiber.Router) {
	srv.Post("/start_camera", h.middleware.NewTokenMiddleware, h.StartCamera)
	srv.Post("/stop_camera", h.middleware.NewTokenMiddleware, h.StopCamera)
	srv.Get("/camera/status", h.middleware.NewTokenMiddleware, h.Status)
	srv.Get("/video_feed", h.middleware.NewTokenMiddleware, h.VideoFeed)
	srv.Post("/snapshot", h.middleware.NewTokenMiddleware, h.Snapshot)
}
