package vision

import (
	"fmt"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

type Device struct {
	capture *gocv.VideoCapture
}

// OpenCamera opens the webcam at index.
func OpenCamera(index int) (*Device, error) {
	capture, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera %d not opened", index)
	}

	return &Device{capture: capture}, nil
}

// Read grabs one frame. ok is false when the device returned nothing.
func (d *Device) Read() (entity.Frame, bool) {
	img := gocv.NewMat()
	if ok := d.capture.Read(&img); !ok || img.Empty() {
		img.Close()
		return nil, false
	}
	return NewFrame(img), true
}

func (d *Device) Close() error {
	return d.capture.Close()
}
