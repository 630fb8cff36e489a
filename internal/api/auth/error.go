package auth

import (
	"AgeGenderDetector/pkg/response"
	"net/http"
)

var (
	ErrDuplicateUser      = response.NewError(http.StatusConflict, "Username or Email already exists!")
	ErrInvalidCredentials = response.NewError(http.StatusUnauthorized, "Invalid credentials")
	ErrUserNotFound       = response.NewError(http.StatusNotFound, "user not found")
	ErrUnauthorized       = response.NewError(http.StatusUnauthorized, "Unauthorized, session invalid or expired")
	ErrMalformedRequest   = response.NewError(http.StatusBadRequest, "malformed request body")
)

const (
	MsgSignupSuccess = "Signup successful. Please login."
	MsgLoggedOut     = "You have been logged out."
)

const MsgInvalidSignup = "Please provide a username, a valid email and a password."
