package flash

import (
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
)

const CookieName = "flash"

// Set stores a one shot message that the next rendered page shows.
func Set(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    Encode(message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Pop returns the pending message, if any, and clears it.
func Pop(c *fiber.Ctx) string {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return ""
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	message, err := Decode(raw)
	if err != nil {
		return ""
	}
	return message
}

func Encode(message string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(message))
}

func Decode(value string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
