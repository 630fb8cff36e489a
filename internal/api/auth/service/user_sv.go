package authService

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"strings"
	"time"
)

// RegisterUser creates an account. The existence check and insert share one
// transaction, and the unique constraints catch anything that races past it.
func (s *userDomainImpl) RegisterUser(ctx context.Context, req auth.SignupRequest) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}
	defer func() {
		_ = repo.Rollback()
	}()

	exists, err := repo.Users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to check existing user")
		return entity.User{}, err
	}
	if exists {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   username,
		}).Warn("Signup rejected, username or email taken")
		return entity.User{}, auth.ErrDuplicateUser
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return entity.User{}, err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.User{}, err
	}

	user := entity.User{
		ID:        ULID,
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}

	if err := repo.Users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, auth.ErrDuplicateUser) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to create user")
		}
		return entity.User{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit user creation")
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("User registered")

	return user, nil
}

func (s *userDomainImpl) LoadUser(ctx context.Context, id string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	user, err := repo.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    id,
			}).Warn("User not found")
		}
		return entity.User{}, err
	}

	return user, nil
}
