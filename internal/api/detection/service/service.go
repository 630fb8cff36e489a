package detectionService

import (
	"AgeGenderDetector/internal/entity"
	"AgeGenderDetector/pkg/utils"
	"golang.org/x/net/context"

	"github.com/sirupsen/logrus"
)

type FaceDetector interface {
	Detect(frame entity.Frame) ([]entity.Candidate, error)
}

// FaceClassifier returns the gender and age softmax outputs for one face.
type FaceClassifier interface {
	Classify(frame entity.Frame, box entity.Box) ([]float32, []float32, error)
}

type FrameDecoder interface {
	Decode(data []byte) (entity.Frame, error)
}

type Annotator interface {
	Annotate(frame entity.Frame, detections []entity.Detection) ([]byte, error)
}

type IDetectionService interface {
	Detect(ctx context.Context, frame entity.Frame) ([]entity.Detection, error)
	ProcessImage(ctx context.Context, payload string) ([]entity.Detection, error)
	ProcessBytes(ctx context.Context, data []byte) ([]entity.Detection, error)
	Annotate(frame entity.Frame, detections []entity.Detection) ([]byte, error)
}

type Config struct {
	// Threshold is the exclusive lower bound on candidate confidence.
	Threshold float32
	// MaxFaces caps detections per frame. Zero means no cap.
	MaxFaces int
}

type detectionService struct {
	log        *logrus.Logger
	detector   FaceDetector
	classifier FaceClassifier
	decoder    FrameDecoder
	annotator  Annotator
	utils      utils.IUtils
	cfg        Config
}

func NewDetectionService(
	log *logrus.Logger,
	detector FaceDetector,
	classifier FaceClassifier,
	decoder FrameDecoder,
	annotator Annotator,
	utils utils.IUtils,
	cfg Config,
) IDetectionService {
	return &detectionService{
		log:        log,
		detector:   detector,
		classifier: classifier,
		decoder:    decoder,
		annotator:  annotator,
		utils:      utils,
		cfg:        cfg,
	}
}
