package cameraService

import (
	"AgeGenderDetector/internal/api/camera"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *cameraService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}

	device, err := s.open(s.index)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"index":      s.index,
			"error":      err.Error(),
		}).Error("Camera failed to open")
		return fmt.Errorf("%w: %v", camera.ErrCameraOpen, err)
	}

	s.device = device
	s.active = true

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"index":      s.index,
	}).Info("Camera opened")
	return nil
}

func (s *cameraService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	if s.device == nil {
		return nil
	}

	err := s.device.Close()
	s.device = nil

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Camera release reported an error")
		return nil
	}

	s.log.WithField("request_id", contextPkg.GetRequestID(ctx)).Info("Camera released")
	return nil
}

func (s *cameraService) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// read grabs a frame under the state lock so Stop never closes the device
// mid read.
func (s *cameraService) read() (frame entity.Frame, ok bool, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.device == nil {
		return nil, false, false
	}

	frame, ok = s.device.Read()
	return frame, ok, true
}

func (s *cameraService) Stream(ctx context.Context, emit func(jpeg []byte) error) error {
	requestID := contextPkg.GetRequestID(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, ok, active := s.read()
		if !active {
			return nil
		}

		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.retryDelay):
			}
			continue
		}

		jpeg, err := s.render(ctx, frame)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Stream frame failed")
			return err
		}

		s.remember(jpeg)

		if err := emit(jpeg); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Debug("Stream client went away")
			return nil
		}
	}
}

func (s *cameraService) render(ctx context.Context, frame entity.Frame) ([]byte, error) {
	defer frame.Close()

	detections, err := s.detection.Detect(ctx, frame)
	if err != nil {
		return nil, err
	}

	return s.detection.Annotate(frame, detections)
}

func (s *cameraService) remember(jpeg []byte) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = jpeg
	s.lastTaken = s.now()
}

func (s *cameraService) latest() ([]byte, time.Time) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last, s.lastTaken
}
