package entity

import "time"

type Session struct {
	ID          string
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

func (s Session) TTL(now time.Time) time.Duration {
	ttl := s.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
