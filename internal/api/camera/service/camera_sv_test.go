package cameraService

import (
	"AgeGenderDetector/internal/api/camera"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	"AgeGenderDetector/pkg/s3"
	"AgeGenderDetector/pkg/utils"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type stubFrame struct {
	closed *int32
}

func (f stubFrame) Width() int   { return 640 }
func (f stubFrame) Height() int  { return 480 }
func (f stubFrame) Close() error { atomic.AddInt32(f.closed, 1); return nil }

type stubDevice struct {
	mu     sync.Mutex
	misses int
	reads  int
	closed int
	frames int32
}

func (d *stubDevice) Read() (entity.Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if d.misses > 0 {
		d.misses--
		return nil, false
	}
	return stubFrame{closed: &d.frames}, true
}

func (d *stubDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

type stubDetection struct{}

func (stubDetection) Detect(context.Context, entity.Frame) ([]entity.Detection, error) {
	return []entity.Detection{}, nil
}
func (stubDetection) ProcessImage(context.Context, string) ([]entity.Detection, error) {
	return nil, nil
}
func (stubDetection) ProcessBytes(context.Context, []byte) ([]entity.Detection, error) {
	return nil, nil
}
func (stubDetection) Annotate(entity.Frame, []entity.Detection) ([]byte, error) {
	return []byte("jpeg"), nil
}

type stubStorage struct {
	keys []string
	fail error
}

func (s *stubStorage) UploadJPEG(_ context.Context, key string, _ []byte) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	s.keys = append(s.keys, key)
	return "https://bucket/" + key, nil
}

func (s *stubStorage) PresignUrl(key string) (string, error) {
	return "https://bucket/" + key + "?signed", nil
}

type opener struct {
	device *stubDevice
	opens  int
	err    error
}

func (o *opener) open(int) (Device, error) {
	o.opens++
	if o.err != nil {
		return nil, o.err
	}
	return o.device, nil
}

func newTestService(o *opener, storage *stubStorage) ICameraService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var store s3.ItfS3
	if storage != nil {
		store = storage
	}

	return NewCameraService(log, o.open, stubDetection{}, store, utils.New(), WithReadRetryDelay(time.Millisecond))
}

func TestStartTwiceOpensOneDevice(t *testing.T) {
	o := &opener{device: &stubDevice{}}
	svc := newTestService(o, nil)

	for i := 0; i < 2; i++ {
		if err := svc.Start(context.Background()); err != nil {
			t.Fatalf("Start() #%d error: %v", i+1, err)
		}
	}

	if o.opens != 1 {
		t.Errorf("opens = %d, want 1", o.opens)
	}
	if !svc.IsActive() {
		t.Error("camera should be active")
	}
}

func TestStopInactiveIsNoop(t *testing.T) {
	o := &opener{device: &stubDevice{}}
	svc := newTestService(o, nil)

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if svc.IsActive() {
		t.Error("camera should be inactive")
	}
	if o.device.closed != 0 {
		t.Errorf("device closed %d times, want 0", o.device.closed)
	}
}

func TestStopReleasesDevice(t *testing.T) {
	o := &opener{device: &stubDevice{}}
	svc := newTestService(o, nil)

	_ = svc.Start(context.Background())
	_ = svc.Stop(context.Background())
	_ = svc.Stop(context.Background())

	if o.device.closed != 1 {
		t.Errorf("device closed %d times, want 1", o.device.closed)
	}
	if svc.IsActive() {
		t.Error("camera should be inactive")
	}
}

func TestStartFailureLeavesCameraInactive(t *testing.T) {
	o := &opener{err: errors.New("no device")}
	svc := newTestService(o, nil)

	err := svc.Start(context.Background())
	if !errors.Is(err, camera.ErrCameraOpen) {
		t.Fatalf("Start() error = %v, want ErrCameraOpen", err)
	}
	if svc.IsActive() {
		t.Error("camera should stay inactive")
	}
}

func TestStreamStopsWhenCameraStops(t *testing.T) {
	device := &stubDevice{misses: 2}
	o := &opener{device: device}
	svc := newTestService(o, nil)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var emitted int
	done := make(chan error, 1)
	go func() {
		done <- svc.Stream(context.Background(), func(jpeg []byte) error {
			emitted++
			if string(jpeg) != "jpeg" {
				t.Errorf("unexpected chunk %q", jpeg)
			}
			if emitted == 3 {
				_ = svc.Stop(context.Background())
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stream() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not exit after stop")
	}

	if emitted != 3 {
		t.Errorf("emitted = %d, want 3", emitted)
	}
	if device.reads != 5 {
		t.Errorf("reads = %d, want 5 (2 misses retried)", device.reads)
	}
	if got := atomic.LoadInt32(&device.frames); got != 3 {
		t.Errorf("frames closed = %d, want 3", got)
	}
}

func TestStreamExits(t *testing.T) {
	t.Run("inactive camera", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{}}, nil)
		err := svc.Stream(context.Background(), func([]byte) error {
			t.Fatal("nothing should be emitted")
			return nil
		})
		if err != nil {
			t.Errorf("Stream() error: %v", err)
		}
	})

	t.Run("client disconnect", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{}}, nil)
		_ = svc.Start(context.Background())

		calls := 0
		err := svc.Stream(context.Background(), func([]byte) error {
			calls++
			return io.ErrClosedPipe
		})
		if err != nil {
			t.Errorf("Stream() error: %v", err)
		}
		if calls != 1 {
			t.Errorf("emit calls = %d, want 1", calls)
		}
		if !svc.IsActive() {
			t.Error("disconnect must not stop the camera")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{misses: 1 << 30}}, nil)
		_ = svc.Start(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := svc.Stream(ctx, func([]byte) error { return nil }); err != nil {
			t.Errorf("Stream() error: %v", err)
		}
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{}}, nil)
		_, err := svc.Snapshot(context.Background())
		if !errors.Is(err, camera.ErrSnapshotNotConfigured) {
			t.Errorf("Snapshot() error = %v, want ErrSnapshotNotConfigured", err)
		}
	})

	t.Run("no frame yet", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{}}, &stubStorage{})
		_, err := svc.Snapshot(context.Background())
		if !errors.Is(err, camera.ErrNoSnapshot) {
			t.Errorf("Snapshot() error = %v, want ErrNoSnapshot", err)
		}
	})

	streamOnce := func(svc ICameraService) {
		_ = svc.Start(context.Background())
		_ = svc.Stream(context.Background(), func([]byte) error { return io.EOF })
	}

	t.Run("uploads latest frame", func(t *testing.T) {
		storage := &stubStorage{}
		svc := newTestService(&opener{device: &stubDevice{}}, storage)
		streamOnce(svc)

		ctx := contextPkg.WithUserID(context.Background(), "user-1")
		resp, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		if len(storage.keys) != 1 || storage.keys[0] != resp.Key {
			t.Errorf("uploaded keys = %v, response key %q", storage.keys, resp.Key)
		}
		if !strings.HasPrefix(resp.Key, "snapshots/user-1/") || !strings.HasSuffix(resp.Key, ".jpg") {
			t.Errorf("unexpected key %q", resp.Key)
		}
		if resp.ExpiresInMinutes != 15 {
			t.Errorf("ExpiresInMinutes = %d, want 15", resp.ExpiresInMinutes)
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		svc := newTestService(&opener{device: &stubDevice{}}, &stubStorage{fail: errors.New("denied")})
		streamOnce(svc)

		_, err := svc.Snapshot(context.Background())
		if !errors.Is(err, camera.ErrSnapshotUploadFailed) {
			t.Errorf("Snapshot() error = %v, want ErrSnapshotUploadFailed", err)
		}
	})
}
