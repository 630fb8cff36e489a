package config

import (
	"AgeGenderDetector/database/postgres"
	authHandler "AgeGenderDetector/internal/api/auth/handler"
	authRepository "AgeGenderDetector/internal/api/auth/repository"
	authService "AgeGenderDetector/internal/api/auth/service"
	cameraHandler "AgeGenderDetector/internal/api/camera/handler"
	cameraService "AgeGenderDetector/internal/api/camera/service"
	"AgeGenderDetector/internal/api/detection"
	detectionHandler "AgeGenderDetector/internal/api/detection/handler"
	detectionService "AgeGenderDetector/internal/api/detection/service"
	"AgeGenderDetector/internal/middleware"
	"AgeGenderDetector/pkg/bcrypt"
	"AgeGenderDetector/pkg/redis"
	"AgeGenderDetector/pkg/s3"
	"AgeGenderDetector/pkg/utils"
	"AgeGenderDetector/pkg/vision"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	sessions    redis.ISessionStore
	s3Client    s3.ItfS3
	accounts    authRepository.Repository
	sessionTTL  time.Duration

	registry   *vision.Registry
	detector   detectionService.FaceDetector
	detectCfg  detectionService.Config
	cameraOpen cameraService.Opener
	camera     cameraService.ICameraService
	closers    []io.Closer
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.accounts == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if server.sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if server.detector == nil {
		return nil, fmt.Errorf("face detector is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithAccountStore picks the user repository from ACCOUNT_STORE. The
// postgres store needs WithDatabase first.
func WithAccountStore() ServerOption {
	return func(s *Server) error {
		switch kind := envString("ACCOUNT_STORE", "postgres"); kind {
		case "postgres":
			if s.db == nil {
				return fmt.Errorf("postgres account store needs a database connection")
			}
			s.accounts = authRepository.New(s.db, s.log)
		case "memory":
			s.log.Warn("Using in-memory account store, accounts are lost on restart")
			s.accounts = authRepository.NewMemory(s.log)
		default:
			return fmt.Errorf("unknown ACCOUNT_STORE %q", kind)
		}
		return nil
	}
}

func WithSessionStore() ServerOption {
	return func(s *Server) error {
		ttl, err := envDuration("SESSION_TTL", authService.DefaultSessionTTL)
		if err != nil {
			return err
		}
		s.sessionTTL = ttl

		switch kind := envString("SESSION_STORE", "redis"); kind {
		case "redis":
			store := redis.New()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("failed to reach redis: %w", err)
			}
			s.sessions = store
		case "memory":
			s.sessions = redis.NewMemory()
		default:
			return fmt.Errorf("unknown SESSION_STORE %q", kind)
		}
		return nil
	}
}

// WithS3Client enables snapshots. A missing bucket only disables them.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if errors.Is(err, s3.ErrBucketNotConfigured) {
			s.log.Warn("AWS_BUCKET_NAME not set, snapshots disabled")
			return nil
		}
		if err != nil {
			s.log.Errorf("Failed to initialize S3 client: %v", err)
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithModelRegistry loads the Caffe networks. Any failure aborts startup.
func WithModelRegistry(modelDir string) ServerOption {
	return func(s *Server) error {
		registry, err := vision.Load(vision.DefaultPaths(modelDir), s.log)
		if err != nil {
			return fmt.Errorf("failed to load models from %s: %w", modelDir, err)
		}
		s.registry = registry
		return nil
	}
}

// WithFaceDetector applies the single detector policy used by both the
// camera stream and frame uploads.
func WithFaceDetector() ServerOption {
	return func(s *Server) error {
		maxFaces, err := envInt("MAX_FACES", 0)
		if err != nil {
			return err
		}
		if maxFaces < 0 {
			return fmt.Errorf("MAX_FACES must not be negative")
		}

		switch kind := detection.DetectorKind(envString("FACE_DETECTOR", string(detection.DetectorSSD))); kind {
		case detection.DetectorSSD:
			if s.registry == nil {
				return fmt.Errorf("ssd detector needs the model registry")
			}
			s.detector = vision.NewSSDDetector(s.registry)
			s.detectCfg = detectionService.Config{Threshold: detection.DefaultConfidenceThreshold, MaxFaces: maxFaces}
		case detection.DetectorCascade:
			path := envString("CASCADE_PATH", "models/haarcascade_frontalface_default.xml")
			cascade, err := vision.NewCascadeDetector(path)
			if err != nil {
				return err
			}
			s.detector = cascade
			s.detectCfg = detectionService.Config{Threshold: 0, MaxFaces: maxFaces}
			s.closers = append(s.closers, cascade)
		default:
			return fmt.Errorf("unknown FACE_DETECTOR %q", kind)
		}

		s.log.WithFields(logrus.Fields{
			"detector":  envString("FACE_DETECTOR", string(detection.DetectorSSD)),
			"threshold": s.detectCfg.Threshold,
			"max_faces": s.detectCfg.MaxFaces,
		}).Info("Face detector configured")
		return nil
	}
}

func WithCamera(open cameraService.Opener) ServerOption {
	return func(s *Server) error {
		s.cameraOpen = open
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	index, err := envInt("CAMERA_INDEX", 0)
	if err != nil {
		return err
	}

	// Auth Domain
	authServices := authService.New(s.log, s.accounts, s.sessions, s.bcryptUtils, s.utils, s.sessionTTL)
	s.middleware = middleware.New(s.log, s.sessions, authServices.User())
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Detection
	detectionServices := detectionService.NewDetectionService(
		s.log,
		s.detector,
		vision.NewClassifier(s.registry),
		vision.NewDecoder(),
		vision.NewAnnotator(),
		s.utils,
		s.detectCfg,
	)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices)

	// Camera
	s.camera = cameraService.NewCameraService(s.log, s.cameraOpen, detectionServices, s.s3Client, s.utils,
		cameraService.WithDeviceIndex(index))
	cameraHandlers := cameraHandler.New(s.log, s.middleware, s.camera)

	s.handlers = append(s.handlers, authHandlers, detectionHandlers, cameraHandlers)
	return nil
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	s.setupHealthCheck()

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	port := envString("APP_PORT", "3000")
	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown releases the camera, drains fiber and frees the models.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.camera != nil {
		if err := s.camera.Stop(ctx); err != nil {
			s.log.Warnf("Failed to release camera: %v", err)
		}
	}

	err := s.engine.ShutdownWithContext(ctx)

	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil {
			s.log.Warnf("Failed to close resource: %v", cerr)
		}
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.Warnf("Failed to close database: %v", cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()

		checks := fiber.Map{"sessions": "ok"}
		status := fiber.StatusOK

		if err := s.sessions.Ping(c); err != nil {
			checks["sessions"] = err.Error()
			status = fiber.StatusServiceUnavailable
		}
		if s.db != nil {
			checks["database"] = "ok"
			if err := s.db.PingContext(c); err != nil {
				checks["database"] = err.Error()
				status = fiber.StatusServiceUnavailable
			}
		}

		return ctx.Status(status).JSON(fiber.Map{
			"message": "Server is Healthy!",
			"checks":  checks,
			"camera":  s.camera != nil && s.camera.IsActive(),
		})
	})
}

// ModelDir reads MODEL_DIR.
func ModelDir() string {
	return envString("MODEL_DIR", "models")
}

// UsesPostgres reports whether ACCOUNT_STORE selects postgres.
func UsesPostgres() bool {
	return envString("ACCOUNT_STORE", "postgres") == "postgres"
}

// OpenVisionCamera adapts the gocv webcam to the camera service.
func OpenVisionCamera(index int) (cameraService.Device, error) {
	device, err := vision.OpenCamera(index)
	if err != nil {
		return nil, err
	}
	return device, nil
}
