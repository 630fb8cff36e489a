package flash

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSetAndPop(t *testing.T) {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		Set(c, "Username or Email already exists!")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		return c.SendString(Pop(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	if err != nil {
		t.Fatalf("set request: %v", err)
	}

	var flashCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			flashCookie = ck
		}
	}
	if flashCookie == nil {
		t.Fatal("flash cookie not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(flashCookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("pop request: %v", err)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Username or Email already exists!" {
		t.Errorf("Pop() = %q", body)
	}

	cleared := false
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName && ck.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be cleared after Pop")
	}
}

func TestPopWithoutCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/pop", func(c *fiber.Ctx) error {
		return c.SendString(Pop(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pop", nil))
	if err != nil {
		t.Fatalf("pop request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("Pop() = %q, want empty", body)
	}
}
