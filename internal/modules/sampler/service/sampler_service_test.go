package service_test

import (
	"errors"
	"testing"
	"time"

	"rehearse/internal/modules/sampler/service"
)

type fakeCapture struct {
	startErr error
	bins     []byte
	stopped  bool
}

func (f *fakeCapture) Start() error { return f.startErr }

func (f *fakeCapture) Bins() []byte { return f.bins }

func (f *fakeCapture) Stop() { f.stopped = true }

func TestStartWithDeniedDeviceDisablesVoice(t *testing.T) {
	t.Parallel()
	capture := &fakeCapture{startErr: errors.New("device busy")}
	s := service.NewSampler(capture, nil)
	s.Start()
	if s.Enabled() {
		t.Fatalf("denied device must leave the sampler disabled")
	}
	if s.Intensity() != 0 {
		t.Fatalf("intensity should stay zero, got %v", s.Intensity())
	}
}

func TestStartWithoutCapture(t *testing.T) {
	t.Parallel()
	s := service.NewSampler(nil, nil)
	s.Start()
	if s.Enabled() {
		t.Fatalf("nil capture must leave the sampler disabled")
	}
}

func TestIntensityFollowsBins(t *testing.T) {
	t.Parallel()
	capture := &fakeCapture{bins: []byte{255, 255, 255, 255}}
	s := service.NewSampler(capture, nil)
	s.Start()
	if !s.Enabled() {
		t.Fatalf("sampler should be enabled with a working device")
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for s.Intensity() < 0.5 {
		select {
		case <-deadline:
			t.Fatalf("intensity never rose toward the loud signal, at %v", s.Intensity())
		case <-time.After(20 * time.Millisecond):
		}
	}
	if s.Intensity() > 1 {
		t.Fatalf("intensity must stay within [0,1], got %v", s.Intensity())
	}
}

func TestStopReleasesDevice(t *testing.T) {
	t.Parallel()
	capture := &fakeCapture{bins: []byte{10}}
	s := service.NewSampler(capture, nil)
	s.Start()
	s.Stop()
	if !capture.stopped {
		t.Fatalf("stop must release the capture device")
	}
	if s.Enabled() {
		t.Fatalf("stopped sampler reports disabled")
	}
	s.Stop()
}
