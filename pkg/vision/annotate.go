package vision

import (
	"image"
	"image/color"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

const (
	boxThickness   = 2
	labelBarHeight = 30
	labelScale     = 0.7
	labelWeight    = 2
)

var (
	green = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

type Annotator struct{}

func NewAnnotator() *Annotator {
	return &Annotator{}
}

// Annotate draws every detection onto the frame in place and returns the
// frame encoded as JPEG.
func (a *Annotator) Annotate(frame entity.Frame, detections []entity.Detection) ([]byte, error) {
	img, err := matOf(frame)
	if err != nil {
		return nil, err
	}

	for _, d := range detections {
		b := d.Box
		gocv.Rectangle(img, image.Rect(b.X1(), b.Y1(), b.X2(), b.Y2()), green, boxThickness)
		gocv.Rectangle(img, image.Rect(b.X1(), b.Y1()-labelBarHeight, b.X2(), b.Y1()), green, -1)
		gocv.PutText(img, d.Label(), image.Pt(b.X1()+5, b.Y1()-8), gocv.FontHersheySimplex, labelScale, white, labelWeight)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *img)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	out := make([]byte, len(encoded))
	copy(out, encoded)
	return out, nil
}
