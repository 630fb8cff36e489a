package middleware

import (
	"AgeGenderDetector/pkg/log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const maxLoggedBody = 2048

func LoggerConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		if err != nil && status == fiber.StatusInternalServerError {
			return err
		}

		logFields := log.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}

		if isStreaming(c) {
			logFields["response_size"] = "stream"
		} else {
			logFields["response_size"] = len(c.Response().Body())
		}

		if body := c.Request().Body(); len(body) > 0 {
			logFields["request_body"] = sanitizeRequestBody(string(c.Request().Header.ContentType()), body)
		}

		if status >= 500 {
			log.Error(logFields, "Server error")
		} else if status >= 400 {
			log.Warn(logFields, "Client error")
		} else {
			log.Info(logFields, "Success")
		}

		return err
	}
}

func isStreaming(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Response().Header.ContentType()), "multipart/x-mixed-replace")
}

var imageFields = []string{"image", "image_base64", "frame"}

var sensitiveFields = []string{
	"password", "password_confirmation", "token", "access_token", "secret", "authorization",
}

func sanitizeRequestBody(contentType string, body []byte) string {
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
			return "[form body]"
		}
		return "[non-JSON body]"
	}

	var jsonBody map[string]interface{}
	if err := jsoniter.Unmarshal(body, &jsonBody); err != nil {
		return "[invalid JSON body]"
	}

	for _, field := range sensitiveFields {
		if _, exists := jsonBody[field]; exists {
			jsonBody[field] = "[SECRET]"
		}
	}

	for _, field := range imageFields {
		if _, exists := jsonBody[field]; exists {
			jsonBody[field] = "[IMAGE]"
		}
	}

	sanitized, err := jsoniter.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	if len(sanitized) > maxLoggedBody {
		return string(sanitized[:maxLoggedBody]) + "..."
	}
	return string(sanitized)
}
