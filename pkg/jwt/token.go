package jwtPkg

import (
	"AgeGenderDetector/internal/entity"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"os"
	"strings"
	"time"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	SessionCookieName = "session"
)

var (
	ErrEmptyToken    = errors.New("empty token")
	ErrSecretMissing = errors.New("JWT secret not configured")
)

func Sign(Data map[string]interface{}, ExpiredAt time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(ExpiredAt).Unix()

	JWTSecretKey := os.Getenv(AccessTokenSecret)
	if JWTSecretKey == "" {
		return "", 0, fmt.Errorf("%s not set", AccessTokenSecret)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true

	for i, v := range Data {
		claims[i] = v
	}

	logrus.WithField("claims", claims).Debug("Creating token with claims")

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(JWTSecretKey))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

// TokenFromRequest returns the session token from the Authorization header,
// falling back to the session cookie set at login.
func TokenFromRequest(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header != "" {
		parts := strings.Split(header, "Bearer ")
		if len(parts) != 2 {
			return "", errors.New("invalid Authorization format")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return "", ErrEmptyToken
		}
		return token, nil
	}

	token := c.Cookies(SessionCookieName)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func Verify(accessToken string, secretEnvKey string) (jwt.MapClaims, error) {
	log := logrus.WithField("func", "Verify")

	if accessToken == "" {
		return nil, ErrEmptyToken
	}

	JWTSecretKey := os.Getenv(secretEnvKey)
	if JWTSecretKey == "" {
		log.Errorf("%s environment variable not set", secretEnvKey)
		return nil, ErrSecretMissing
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", token.Header["alg"]).Error("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(JWTSecretKey), nil
	})
	if err != nil {
		log.WithError(err).Debug("Failed to parse JWT token")
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	userData := c.Locals("user")

	user, ok := userData.(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
