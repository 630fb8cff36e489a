package detection

import (
	"AgeGenderDetector/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrMalformedRequest    = response.NewError(http.StatusBadRequest, "request body must be JSON with an image field")
	ErrInvalidImagePayload = response.NewError(http.StatusBadRequest, "image must be a base64 data URL")
	ErrUndecodableImage    = response.NewError(http.StatusBadRequest, "image could not be decoded")
	ErrLabelMismatch       = response.NewError(http.StatusInternalServerError, "classifier output does not match label set")
)
