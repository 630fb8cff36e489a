package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrEmptyImagePayload  = errors.New("image payload is empty")
	ErrInvalidDataURL     = errors.New("image payload is not a base64 data URL")
	ErrInvalidBase64      = errors.New("image payload is not valid base64")
	ErrImagePayloadTooBig = errors.New("image payload exceeds size limit")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeImagePayload(payload string) ([]byte, error)
}

type utils struct {
	maxImageSize int
}

func New() IUtils {
	return &utils{
		maxImageSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeImagePayload accepts "data:<mime>;base64,<payload>" as produced by
// canvas.toDataURL, or a bare base64 string, and returns the raw image bytes.
func (u *utils) DecodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyImagePayload
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, ErrInvalidDataURL
		}
		payload = payload[comma+1:]
	}

	if payload == "" {
		return nil, ErrEmptyImagePayload
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > u.maxImageSize {
		return nil, ErrImagePayloadTooBig
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, ErrInvalidBase64
		}
	}

	if len(data) == 0 {
		return nil, ErrEmptyImagePayload
	}

	return data, nil
}
