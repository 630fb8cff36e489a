package auth

import "time"

type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=1,max=72"`
}

// LoginRequest accepts either a username or an email as identifier. The
// email and username fields are kept for forms that post them directly.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Email      string `json:"email" form:"email"`
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password" validate:"required"`
}

func (r LoginRequest) LoginIdentifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Email != "":
		return r.Email
	default:
		return r.Username
	}
}

type LoginResponse struct {
	AccessToken      string    `json:"access_token"`
	ExpiresInMinutes float64   `json:"expires_in_minutes"`
	ExpiresAt        time.Time `json:"-"`
	SessionID        string    `json:"-"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
