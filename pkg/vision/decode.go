package vision

import (
	"errors"
	"fmt"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

var ErrUndecodableImage = errors.New("image bytes could not be decoded")

type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode turns encoded image bytes (JPEG, PNG, ...) into a BGR frame.
func (d *Decoder) Decode(data []byte) (entity.Frame, error) {
	if len(data) == 0 {
		return nil, ErrUndecodableImage
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrUndecodableImage
	}

	return NewFrame(mat), nil
}
