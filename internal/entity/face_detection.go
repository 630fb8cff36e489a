package entity

import "fmt"

var (
	AgeBrackets = []string{"(0-2)", "(4-6)", "(8-12)", "(15-20)", "(25-32)", "(38-43)", "(48-53)", "(60-100)"}
	Genders     = []string{"Male", "Female"}
)

// Frame is a decoded BGR raster. Whoever produced it must Close it after one
// detection pass.
type Frame interface {
	Width() int
	Height() int
	Close() error
}

// Box holds pixel coordinates as [x1, y1, x2, y2].
type Box [4]int

func (b Box) X1() int { return b[0] }
func (b Box) Y1() int { return b[1] }
func (b Box) X2() int { return b[2] }
func (b Box) Y2() int { return b[3] }

func (b Box) Width() int  { return b[2] - b[0] }
func (b Box) Height() int { return b[3] - b[1] }

func (b Box) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Clip clamps the box to a w x h frame. The second return is false when
// nothing of the box is left.
func (b Box) Clip(w, h int) (Box, bool) {
	clipped := Box{
		clamp(b[0], 0, w),
		clamp(b[1], 0, h),
		clamp(b[2], 0, w),
		clamp(b[3], 0, h),
	}
	return clipped, !clipped.Empty()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type RectF struct {
	X1, Y1, X2, Y2 float32
}

// Candidate is a raw face detector output before filtering. Normalized rects
// are fractions of the frame size, otherwise they are pixels.
type Candidate struct {
	Rect       RectF
	Normalized bool
	Confidence float32
}

// PixelBox converts the candidate to integer pixel coordinates of a w x h frame.
func (c Candidate) PixelBox(w, h int) Box {
	r := c.Rect
	if c.Normalized {
		r = RectF{
			X1: r.X1 * float32(w),
			Y1: r.Y1 * float32(h),
			X2: r.X2 * float32(w),
			Y2: r.Y2 * float32(h),
		}
	}
	return Box{int(r.X1), int(r.Y1), int(r.X2), int(r.Y2)}
}

type Detection struct {
	Box    Box    `json:"box"`
	Gender string `json:"gender"`
	Age    string `json:"age"`
}

func (d Detection) Label() string {
	return fmt.Sprintf("%s, %s", d.Gender, d.Age)
}
