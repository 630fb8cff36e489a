package detectionService

import (
	"AgeGenderDetector/internal/api/detection"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	"fmt"
	"golang.org/x/net/context"

	"github.com/sirupsen/logrus"
)

// Detect runs the full pipeline on one frame. A frame without faces yields
// an empty, non-nil slice.
func (s *detectionService) Detect(ctx context.Context, frame entity.Frame) ([]entity.Detection, error) {
	requestID := contextPkg.GetRequestID(ctx)

	candidates, err := s.detector.Detect(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Face detector failed")
		return nil, fmt.Errorf("%w: %v", detection.ErrInternalServerError, err)
	}

	w, h := frame.Width(), frame.Height()
	results := make([]entity.Detection, 0, len(candidates))

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if candidate.Confidence <= s.cfg.Threshold {
			continue
		}

		box, ok := candidate.PixelBox(w, h).Clip(w, h)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"box":        box,
			}).Debug("Skipping empty face crop")
			continue
		}

		genderScores, ageScores, err := s.classifier.Classify(frame, box)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Face classifier failed")
			return nil, fmt.Errorf("%w: %v", detection.ErrInternalServerError, err)
		}

		gender, err := label(genderScores, entity.Genders)
		if err != nil {
			return nil, err
		}
		age, err := label(ageScores, entity.AgeBrackets)
		if err != nil {
			return nil, err
		}

		results = append(results, entity.Detection{
			Box:    box,
			Gender: gender,
			Age:    age,
		})

		if s.cfg.MaxFaces > 0 && len(results) >= s.cfg.MaxFaces {
			break
		}
	}

	return results, nil
}

func (s *detectionService) ProcessImage(ctx context.Context, payload string) ([]entity.Detection, error) {
	data, err := s.utils.DecodeImagePayload(payload)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Rejected image payload")
		return nil, detection.ErrInvalidImagePayload
	}

	return s.ProcessBytes(ctx, data)
}

func (s *detectionService) ProcessBytes(ctx context.Context, data []byte) ([]entity.Detection, error) {
	frame, err := s.decoder.Decode(data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
			"bytes":      len(data),
		}).Warn("Image could not be decoded")
		return nil, detection.ErrUndecodableImage
	}
	defer frame.Close()

	return s.Detect(ctx, frame)
}

func (s *detectionService) Annotate(frame entity.Frame, detections []entity.Detection) ([]byte, error) {
	return s.annotator.Annotate(frame, detections)
}

// label maps a softmax output to its arg-max label.
func label(scores []float32, labels []string) (string, error) {
	if len(scores) != len(labels) {
		return "", fmt.Errorf("%w: got %d scores for %d labels", detection.ErrLabelMismatch, len(scores), len(labels))
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return labels[best], nil
}
