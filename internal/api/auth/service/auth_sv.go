package authService

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Login checks the credentials, registers a server side session and returns
// a signed token that references it.
func (s *authDomainImpl) Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	identifier := strings.TrimSpace(req.LoginIdentifier())
	if identifier == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Login without identifier")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	user, err := s.findByIdentifier(c, identifier)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login for unknown user")
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Password comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	sessionID, err := s.utils.NewULIDFromTimestamp(s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session id")
		return auth.LoginResponse{}, err
	}

	token, expired, err := jwtPkg.Sign(MakeUserData(user, sessionID), s.sessionTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginResponse{}, err
	}

	if err := s.sessions.SetSession(c, sessionID, user.ID, s.sessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store session")
		return auth.LoginResponse{}, err
	}

	session := entity.Session{
		ID:          sessionID,
		UserID:      user.ID,
		AccessToken: token,
	}
	session.ExpiresAt = s.now().Add(s.sessionTTL)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
		"expires_at": expired,
	}).Info("Session created")

	return auth.LoginResponse{
		AccessToken:      session.AccessToken,
		ExpiresInMinutes: session.TTL(s.now()).Minutes(),
		ExpiresAt:        session.ExpiresAt,
		SessionID:        session.ID,
	}, nil
}

func (s *authDomainImpl) findByIdentifier(c context.Context, identifier string) (entity.User, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	if looksLikeEmail(identifier) {
		user, err := repo.Users.GetByEmail(c, normalizeEmail(identifier))
		if err == nil || !errors.Is(err, auth.ErrUserNotFound) {
			return user, err
		}
	}

	return repo.Users.GetByUsername(c, identifier)
}

func (s *authDomainImpl) Logout(c context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.DeleteSession(c, sessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to delete session")
		return err
	}

	return nil
}
