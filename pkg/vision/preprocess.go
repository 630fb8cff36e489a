package vision

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	detectorInputSize   = 300
	classifierInputSize = 227
	blobScale           = 1.0
)

var (
	detectorMean   = gocv.NewScalar(104.0, 177.0, 123.0, 0)
	classifierMean = gocv.NewScalar(78.4263377603, 87.7689143744, 114.895847746, 0)
)

// detectorBlob builds the Res10 SSD input. The network was trained on BGR so
// channels are not swapped.
func detectorBlob(img gocv.Mat) gocv.Mat {
	return gocv.BlobFromImage(img, blobScale, image.Pt(detectorInputSize, detectorInputSize), detectorMean, false, false)
}

func classifierBlob(face gocv.Mat) gocv.Mat {
	return gocv.BlobFromImage(face, blobScale, image.Pt(classifierInputSize, classifierInputSize), classifierMean, false, false)
}
