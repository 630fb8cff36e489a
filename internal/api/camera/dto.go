package camera

import "time"

// FrameBoundary separates JPEG parts of the video feed.
const FrameBoundary = "frame"

type SnapshotResponse struct {
	Key              string    `json:"key"`
	URL              string    `json:"url"`
	ExpiresInMinutes int       `json:"expires_in_minutes"`
	CapturedAt       time.Time `json:"captured_at"`
}

type StatusResponse struct {
	Active bool `json:"active"`
}
