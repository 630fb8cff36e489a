package authService

import (
	"AgeGenderDetector/internal/entity"
	"strings"
)

func MakeUserData(user entity.User, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"sid":      sessionID,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
