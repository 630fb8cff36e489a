package handlerUtil

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/api/camera"
	"AgeGenderDetector/internal/api/detection"
	"AgeGenderDetector/pkg/flash"
	"AgeGenderDetector/pkg/log"
	"AgeGenderDetector/pkg/response"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Auth domain errors
	if errors.Is(err, auth.ErrDuplicateUser) {
		h.logger.WithFields(fields).Warn("Username or email already exists")
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error: auth.ErrDuplicateUser.Error(),
			Code:  "DUPLICATE_USER",
		})
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.WithFields(fields).Warn("Invalid credentials")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: auth.ErrInvalidCredentials.Error(),
			Code:  "INVALID_CREDENTIALS",
		})
	}

	// Camera domain errors
	if errors.Is(err, camera.ErrCameraOpen) {
		h.logger.WithFields(fields).Error("Camera could not be opened")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: camera.ErrCameraOpen.Error(),
			Code:  "CAMERA_ERROR",
		})
	}

	// Detection domain errors
	if errors.Is(err, detection.ErrInternalServerError) || errors.Is(err, detection.ErrLabelMismatch) {
		h.logger.WithFields(fields).Error("Detection pipeline failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal server error",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		if respErr.Code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}
		return c.Status(respErr.Code).JSON(ErrorResponse{Error: respErr.Error()})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		h.logger.WithFields(fields).Warn("Operation failed with fiber error")
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
	}

	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

// HandleFlashRedirect is the browser counterpart of Handle: the message is
// shown on the page the client is sent to.
func (h *ErrorHandler) HandleFlashRedirect(c *fiber.Ctx, requestID string, message string, location string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
		"location":   location,
	}).Debug("Redirecting with flash message")

	flash.Set(c, message)
	return c.Redirect(location, fiber.StatusFound)
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

// WantsHTML reports whether the client is a browser navigating pages rather
// than an API client.
func WantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
