package vision

import (
	"fmt"
	"image"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

type Classifier struct {
	registry *Registry
}

func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify runs both classifiers on the box region and returns their raw
// softmax outputs. The box must already be clipped to the frame.
func (c *Classifier) Classify(frame entity.Frame, box entity.Box) ([]float32, []float32, error) {
	img, err := matOf(frame)
	if err != nil {
		return nil, nil, err
	}

	face := img.Region(image.Rect(box.X1(), box.Y1(), box.X2(), box.Y2()))
	defer face.Close()

	blob := classifierBlob(face)
	defer blob.Close()

	gender, err := scores(c.registry.gender, blob)
	if err != nil {
		return nil, nil, fmt.Errorf("gender classifier: %w", err)
	}

	age, err := scores(c.registry.age, blob)
	if err != nil {
		return nil, nil, fmt.Errorf("age classifier: %w", err)
	}

	return gender, age, nil
}

func scores(net *guardedNet, blob gocv.Mat) ([]float32, error) {
	out := net.forward(blob)
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, err
	}

	result := make([]float32, len(data))
	copy(result, data)
	return result, nil
}
