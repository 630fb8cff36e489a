package config

import (
	"AgeGenderDetector/pkg/handlerUtil"
	"AgeGenderDetector/web"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) (*fiber.App, error) {
	views, err := web.Views()
	if err != nil {
		return nil, err
	}

	engine := html.NewFileSystem(views, ".html")

	app := fiber.New(
		fiber.Config{
			AppName:           "Age Gender Detector",
			BodyLimit:         16 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: false,
			Views:             engine,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler:      errorHandler(logger),
		})

	return app, nil
}

func NewValidator() *validator.Validate {
	return validator.New()
}

// errorHandler answers errors that escaped the handlers, e.g. unknown routes.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Error("Unhandled error")
		}

		return c.Status(code).JSON(handlerUtil.ErrorResponse{Error: err.Error()})
	}
}
