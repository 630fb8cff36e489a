package vision

import (
	"errors"

	"AgeGenderDetector/internal/entity"
	"gocv.io/x/gocv"
)

var ErrForeignFrame = errors.New("frame was not produced by the vision package")

type matFrame struct {
	mat gocv.Mat
}

func NewFrame(mat gocv.Mat) entity.Frame {
	return &matFrame{mat: mat}
}

func (f *matFrame) Width() int  { return f.mat.Cols() }
func (f *matFrame) Height() int { return f.mat.Rows() }

func (f *matFrame) Close() error {
	return f.mat.Close()
}

func matOf(frame entity.Frame) (*gocv.Mat, error) {
	f, ok := frame.(*matFrame)
	if !ok {
		return nil, ErrForeignFrame
	}
	return &f.mat, nil
}
