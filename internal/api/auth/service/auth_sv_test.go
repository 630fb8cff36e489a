package authService_test

import (
	"AgeGenderDetector/internal/api/auth"
	authRepository "AgeGenderDetector/internal/api/auth/repository"
	authService "AgeGenderDetector/internal/api/auth/service"
	"AgeGenderDetector/pkg/bcrypt"
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"AgeGenderDetector/pkg/redis"
	"AgeGenderDetector/pkg/utils"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	xbcrypt "golang.org/x/crypto/bcrypt"
)

type countingSessions struct {
	redis.ISessionStore
	sets int
}

func (c *countingSessions) SetSession(ctx context.Context, sessionID string, userID string, expiration time.Duration) error {
	c.sets++
	return c.ISessionStore.SetSession(ctx, sessionID, userID, expiration)
}

type fixture struct {
	service  authService.AuthService
	repo     *authRepository.MemoryRepository
	sessions *countingSessions
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := authRepository.NewMemory(log)
	sessions := &countingSessions{ISessionStore: redis.NewMemory()}

	svc := authService.New(log, repo, sessions, bcrypt.NewWithCost(xbcrypt.MinCost), utils.New(), time.Hour)
	return fixture{service: svc, repo: repo, sessions: sessions}
}

func signupAlice(t *testing.T, f fixture) {
	t.Helper()
	_, err := f.service.User().RegisterUser(context.Background(), auth.SignupRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "p1",
	})
	if err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.User().RegisterUser(ctx, auth.SignupRequest{Username: "alice", Email: "A@X.com", Password: "p1"})
	if err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}
	if user.ID == "" || user.Email != "a@x.com" {
		t.Errorf("RegisterUser() = %+v", user)
	}
	if user.Password == "p1" {
		t.Error("password stored in plain text")
	}

	loaded, err := f.service.User().LoadUser(ctx, user.ID)
	if err != nil || loaded.Username != "alice" {
		t.Errorf("LoadUser() = %+v, %v", loaded, err)
	}

	if _, err := f.service.User().LoadUser(ctx, "missing"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("LoadUser(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestRegisterUserDuplicate(t *testing.T) {
	tests := []struct {
		name string
		req  auth.SignupRequest
	}{
		{name: "same username and email", req: auth.SignupRequest{Username: "alice", Email: "a@x.com", Password: "p1"}},
		{name: "same username", req: auth.SignupRequest{Username: "alice", Email: "b@x.com", Password: "p2"}},
		{name: "same email", req: auth.SignupRequest{Username: "bob", Email: "a@x.com", Password: "p2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			signupAlice(t, f)

			_, err := f.service.User().RegisterUser(context.Background(), tt.req)
			if !errors.Is(err, auth.ErrDuplicateUser) {
				t.Fatalf("RegisterUser() error = %v, want ErrDuplicateUser", err)
			}
			if f.repo.Len() != 1 {
				t.Errorf("store has %d users, want 1", f.repo.Len())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{name: "by email", req: auth.LoginRequest{Email: "a@x.com", Password: "p1"}},
		{name: "by identifier email", req: auth.LoginRequest{Identifier: "a@x.com", Password: "p1"}},
		{name: "by username", req: auth.LoginRequest{Identifier: "alice", Password: "p1"}},
		{name: "wrong password", req: auth.LoginRequest{Identifier: "alice", Password: "nope"}, wantErr: auth.ErrInvalidCredentials},
		{name: "unknown user", req: auth.LoginRequest{Identifier: "carol", Password: "p1"}, wantErr: auth.ErrInvalidCredentials},
		{name: "no identifier", req: auth.LoginRequest{Password: "p1"}, wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			signupAlice(t, f)
			ctx := context.Background()

			res, err := f.service.Auth().Login(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				if f.sessions.sets != 0 {
					t.Errorf("failed login created %d sessions", f.sessions.sets)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error: %v", err)
			}

			claims, err := jwtPkg.Verify(res.AccessToken, jwtPkg.AccessTokenSecret)
			if err != nil {
				t.Fatalf("Verify() error: %v", err)
			}
			if claims["username"] != "alice" || claims["sid"] != res.SessionID {
				t.Errorf("unexpected claims %v", claims)
			}

			userID, err := f.sessions.GetSession(ctx, res.SessionID)
			if err != nil {
				t.Fatalf("session not stored: %v", err)
			}
			if userID != claims["id"] {
				t.Errorf("session user = %q, claims id = %v", userID, claims["id"])
			}
			if res.ExpiresInMinutes <= 0 || res.ExpiresInMinutes > 60 {
				t.Errorf("ExpiresInMinutes = %v", res.ExpiresInMinutes)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	signupAlice(t, f)
	ctx := context.Background()

	res, err := f.service.Auth().Login(ctx, auth.LoginRequest{Identifier: "alice", Password: "p1"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := f.service.Auth().Logout(ctx, res.SessionID); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if _, err := f.sessions.GetSession(ctx, res.SessionID); !errors.Is(err, redis.ErrSessionNotFound) {
		t.Errorf("GetSession() after logout error = %v, want ErrSessionNotFound", err)
	}

	if err := f.service.Auth().Logout(ctx, ""); err != nil {
		t.Errorf("Logout(\"\") error: %v", err)
	}
}
