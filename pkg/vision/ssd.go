package vision

import (
	"AgeGenderDetector/internal/entity"
)

// SSDDetector runs the Res10 SSD network. Output is [1,1,N,7] with rows of
// (image_id, class_id, confidence, x1, y1, x2, y2) in normalized coordinates.
type SSDDetector struct {
	registry *Registry
}

func NewSSDDetector(registry *Registry) *SSDDetector {
	return &SSDDetector{registry: registry}
}

func (d *SSDDetector) Detect(frame entity.Frame) ([]entity.Candidate, error) {
	img, err := matOf(frame)
	if err != nil {
		return nil, err
	}

	blob := detectorBlob(*img)
	dets := d.registry.detector.forward(blob)
	blob.Close()
	defer dets.Close()

	if dets.Empty() || dets.Total() < 7 {
		return nil, nil
	}

	rows := dets.Total() / 7
	flat := dets.Reshape(1, rows)
	defer flat.Close()

	out := make([]entity.Candidate, 0, rows)
	for i := 0; i < rows; i++ {
		out = append(out, entity.Candidate{
			Confidence: flat.GetFloatAt(i, 2),
			Normalized: true,
			Rect: entity.RectF{
				X1: flat.GetFloatAt(i, 3),
				Y1: flat.GetFloatAt(i, 4),
				X2: flat.GetFloatAt(i, 5),
				Y2: flat.GetFloatAt(i, 6),
			},
		})
	}

	return out, nil
}
