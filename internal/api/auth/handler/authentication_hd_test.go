package authHandler_test

import (
	"AgeGenderDetector/internal/api/auth"
	authHandler "AgeGenderDetector/internal/api/auth/handler"
	authRepository "AgeGenderDetector/internal/api/auth/repository"
	authService "AgeGenderDetector/internal/api/auth/service"
	"AgeGenderDetector/internal/middleware"
	"AgeGenderDetector/pkg/bcrypt"
	"AgeGenderDetector/pkg/flash"
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"AgeGenderDetector/pkg/redis"
	"AgeGenderDetector/pkg/utils"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	xbcrypt "golang.org/x/crypto/bcrypt"
)

type fixture struct {
	app  *fiber.App
	repo *authRepository.MemoryRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := authRepository.NewMemory(log)
	sessions := redis.NewMemory()
	svc := authService.New(log, repo, sessions, bcrypt.NewWithCost(xbcrypt.MinCost), utils.New(), time.Hour)
	mw := middleware.New(log, sessions, svc.User())
	h := authHandler.New(log, svc, validator.New(), mw)

	app := fiber.New()
	app.Post("/signup", h.HandleSignup)
	app.Post("/login", h.HandleLogin)
	app.Get("/logout", mw.NewTokenMiddleware, h.HandleLogout)
	app.Get("/profile", mw.NewTokenMiddleware, h.HandleProfile)

	return fixture{app: app, repo: repo}
}

func (f fixture) form(t *testing.T, path string, values url.Values, accept string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	req.Header.Set("Accept", accept)

	resp, err := f.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	return resp
}

func (f fixture) get(t *testing.T, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := f.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	return resp
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flashOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	c := cookieNamed(resp, flash.CookieName)
	if c == nil {
		t.Fatal("no flash cookie set")
	}
	msg, err := flash.Decode(c.Value)
	if err != nil {
		t.Fatalf("flash.Decode() error: %v", err)
	}
	return msg
}

var alice = url.Values{
	"username": {"alice"},
	"email":    {"a@x.com"},
	"password": {"p1"},
}

const browserAccept = "text/html,application/xhtml+xml"

func TestSignupDuplicateFlashes(t *testing.T) {
	f := newFixture(t)

	resp := f.form(t, "/signup", alice, browserAccept)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("first signup: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if got := flashOf(t, resp); got != auth.MsgSignupSuccess {
		t.Errorf("first signup flash = %q", got)
	}

	resp = f.form(t, "/signup", alice, browserAccept)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/signup" {
		t.Fatalf("second signup: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if got := flashOf(t, resp); got != "Username or Email already exists!" {
		t.Errorf("second signup flash = %q", got)
	}

	if n := f.repo.Len(); n != 1 {
		t.Errorf("stored users = %d, want 1", n)
	}
}

func TestSignupJSON(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		values     url.Values
		wantStatus int
	}{
		{"created", alice, fiber.StatusCreated},
		{"duplicate", alice, fiber.StatusConflict},
		{"invalid email", url.Values{"username": {"bob"}, "email": {"nope"}, "password": {"p"}}, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.form(t, "/signup", tt.values, fiber.MIMEApplicationJSON)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestLoginProfileLogout(t *testing.T) {
	f := newFixture(t)
	f.form(t, "/signup", alice, fiber.MIMEApplicationJSON)

	resp := f.form(t, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}}, fiber.MIMEApplicationJSON)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", resp.StatusCode)
	}
	if cookieNamed(resp, jwtPkg.SessionCookieName) != nil {
		t.Fatal("wrong password must not set a session cookie")
	}

	resp = f.form(t, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}}, browserAccept)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("browser wrong password: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if got := flashOf(t, resp); got != "Invalid credentials" {
		t.Errorf("flash = %q", got)
	}

	resp = f.form(t, "/login", url.Values{"email": {"a@x.com"}, "password": {"p1"}}, browserAccept)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/detector" {
		t.Fatalf("login: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	session := cookieNamed(resp, jwtPkg.SessionCookieName)
	if session == nil || session.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	resp = f.get(t, "/profile", session)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("profile status = %d, want 200", resp.StatusCode)
	}
	var profile auth.UserResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Username != "alice" || profile.Email != "a@x.com" {
		t.Errorf("profile = %+v", profile)
	}

	if resp = f.get(t, "/logout", session); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}
	if resp = f.get(t, "/profile", session); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("profile after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedPageRedirectsBrowsers(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Accept", browserAccept)
	resp, err := f.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Errorf("status %d location %q, want redirect to /login", resp.StatusCode, resp.Header.Get("Location"))
	}
}
