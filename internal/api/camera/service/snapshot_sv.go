package cameraService

import (
	"AgeGenderDetector/internal/api/camera"
	contextPkg "AgeGenderDetector/pkg/context"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const snapshotURLTTL = 15 * time.Minute

// Snapshot archives the most recent annotated stream frame.
func (s *cameraService) Snapshot(ctx context.Context) (camera.SnapshotResponse, error) {
	if s.storage == nil {
		return camera.SnapshotResponse{}, camera.ErrSnapshotNotConfigured
	}

	jpeg, takenAt := s.latest()
	if len(jpeg) == 0 {
		return camera.SnapshotResponse{}, camera.ErrNoSnapshot
	}

	id, err := s.utils.NewULIDFromTimestamp(takenAt)
	if err != nil {
		return camera.SnapshotResponse{}, err
	}

	owner := contextPkg.GetUserID(ctx)
	if owner == "" {
		owner = "anonymous"
	}
	key := fmt.Sprintf("snapshots/%s/%s.jpg", owner, id)

	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"key":        key,
	})

	if _, err := s.storage.UploadJPEG(ctx, key, jpeg); err != nil {
		logger.WithField("error", err.Error()).Error("Snapshot upload failed")
		return camera.SnapshotResponse{}, fmt.Errorf("%w: %v", camera.ErrSnapshotUploadFailed, err)
	}

	url, err := s.storage.PresignUrl(key)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Snapshot presign failed")
		return camera.SnapshotResponse{}, fmt.Errorf("%w: %v", camera.ErrSnapshotUploadFailed, err)
	}

	logger.Info("Snapshot archived")

	return camera.SnapshotResponse{
		Key:              key,
		URL:              url,
		ExpiresInMinutes: int(snapshotURLTTL.Minutes()),
		CapturedAt:       takenAt,
	}, nil
}
