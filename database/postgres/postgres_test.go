package postgres_test

import (
	"AgeGenderDetector/database/postgres"
	"AgeGenderDetector/internal/api/auth"
	authRepository "AgeGenderDetector/internal/api/auth/repository"
	"AgeGenderDetector/internal/entity"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func dockerAvailable(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("testcontainers panicked: %v", r)
		}
	}()
	_, err = testcontainers.NewDockerClientWithOpts(ctx)
	return err
}

func TestUserRepositoryAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if err := dockerAvailable(ctx); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("agegender_test"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error: %v", err)
	}

	db, err := postgres.Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := postgres.Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate() run %d error: %v", i+1, err)
		}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	client, err := authRepository.New(db, log).NewClient(false)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	alice := entity.User{ID: "01J0000000000000000000000A", Username: "alice", Email: "a@x.com", Password: "hash"}
	if err := client.Users.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	dup := alice
	dup.ID = "01J0000000000000000000000B"
	dup.Username = "alice2"
	if err := client.Users.CreateUser(ctx, dup); !errors.Is(err, auth.ErrDuplicateUser) {
		t.Errorf("duplicate email error = %v, want ErrDuplicateUser", err)
	}

	got, err := client.Users.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if got.ID != alice.ID || got.Username != "alice" {
		t.Errorf("GetByEmail() = %+v", got)
	}

	exists, err := client.Users.ExistsByUsernameOrEmail(ctx, "alice", "other@x.com")
	if err != nil || !exists {
		t.Errorf("ExistsByUsernameOrEmail() = %v, %v", exists, err)
	}

	if _, err := client.Users.GetByUsername(ctx, "nobody"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("GetByUsername(nobody) error = %v, want ErrUserNotFound", err)
	}
}
