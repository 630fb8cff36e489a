package cameraService

import (
	"AgeGenderDetector/internal/api/camera"
	detectionService "AgeGenderDetector/internal/api/detection/service"
	"AgeGenderDetector/internal/entity"
	"AgeGenderDetector/pkg/s3"
	"AgeGenderDetector/pkg/utils"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultReadRetryDelay = 10 * time.Millisecond

// Device is an opened capture source.
type Device interface {
	Read() (entity.Frame, bool)
	Close() error
}

// Opener opens the capture device at index.
type Opener func(index int) (Device, error)

type ICameraService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsActive() bool
	// Stream pushes annotated JPEG frames to emit until the camera is
	// stopped, ctx is cancelled or emit fails.
	Stream(ctx context.Context, emit func(jpeg []byte) error) error
	Snapshot(ctx context.Context) (camera.SnapshotResponse, error)
}

type Option func(*cameraService)

func WithReadRetryDelay(d time.Duration) Option {
	return func(s *cameraService) {
		s.retryDelay = d
	}
}

func WithDeviceIndex(index int) Option {
	return func(s *cameraService) {
		s.index = index
	}
}

type cameraService struct {
	log        *logrus.Logger
	open       Opener
	detection  detectionService.IDetectionService
	storage    s3.ItfS3
	utils      utils.IUtils
	index      int
	retryDelay time.Duration
	now        func() time.Time

	mu     sync.Mutex
	device Device
	active bool

	lastMu    sync.RWMutex
	last      []byte
	lastTaken time.Time
}

// NewCameraService builds the owner of the server side webcam. storage may be
// nil, in which case snapshots are unavailable.
func NewCameraService(
	log *logrus.Logger,
	open Opener,
	ds detectionService.IDetectionService,
	storage s3.ItfS3,
	utils utils.IUtils,
	opts ...Option,
) ICameraService {
	s := &cameraService{
		log:        log,
		open:       open,
		detection:  ds,
		storage:    storage,
		utils:      utils,
		retryDelay: DefaultReadRetryDelay,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
