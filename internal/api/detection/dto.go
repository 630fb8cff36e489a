package detection

import "AgeGenderDetector/internal/entity"

type ProcessFrameRequest struct {
	Image string `json:"image" validate:"required"`
}

type ProcessFrameResponse struct {
	Results []entity.Detection `json:"results"`
}

type ErrorMessage struct {
	Error string `json:"error"`
}

type DetectorKind string

const (
	DetectorSSD     DetectorKind = "ssd"
	DetectorCascade DetectorKind = "cascade"
)

// DefaultConfidenceThreshold applies to the SSD detector. Candidates must
// score strictly above it.
const DefaultConfidenceThreshold float32 = 0.7
