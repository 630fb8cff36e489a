package camera

import (
	"AgeGenderDetector/pkg/response"
	"net/http"
)

var (
	ErrCameraOpen            = response.NewError(http.StatusInternalServerError, "Camera error")
	ErrNoSnapshot            = response.NewError(http.StatusConflict, "no frame captured yet, start the camera first")
	ErrSnapshotNotConfigured = response.NewError(http.StatusServiceUnavailable, "snapshot storage not configured")
	ErrSnapshotUploadFailed  = response.NewError(http.StatusBadGateway, "failed to archive snapshot")
)
