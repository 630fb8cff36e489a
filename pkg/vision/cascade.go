package vision

import (
	"fmt"
	"image"
	"os"
	"sync"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

const (
	cascadeScaleFactor  = 1.2
	cascadeMinNeighbors = 5
	cascadeMinSize      = 100
)

// CascadeDetector is the Haar cascade alternative. It reports pixel boxes
// and no score, so every candidate carries confidence 1.
type CascadeDetector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
}

func NewCascadeDetector(path string) (*CascadeDetector, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load face cascade: %w", err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("load face cascade: cannot parse %s", path)
	}

	return &CascadeDetector{classifier: classifier}, nil
}

func (d *CascadeDetector) Detect(frame entity.Frame) ([]entity.Candidate, error) {
	img, err := matOf(frame)
	if err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)

	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(
		gray,
		cascadeScaleFactor,
		cascadeMinNeighbors,
		0,
		image.Pt(cascadeMinSize, cascadeMinSize),
		image.Pt(0, 0),
	)
	d.mu.Unlock()

	out := make([]entity.Candidate, 0, len(rects))
	for _, r := range rects {
		out = append(out, entity.Candidate{
			Confidence: 1,
			Rect: entity.RectF{
				X1: float32(r.Min.X),
				Y1: float32(r.Min.Y),
				X2: float32(r.Max.X),
				Y2: float32(r.Max.Y),
			},
		})
	}

	return out, nil
}

func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
