package service

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"rehearse/internal/modules/sampler/domain"
	samplerout "rehearse/internal/modules/sampler/port/out"
)

const tickInterval = 16 * time.Millisecond

// Sampler converts the capture device's magnitude bins into a smoothed
// intensity scalar. The tick loop is the sole writer of the scalar; the
// render path only reads it.
type Sampler struct {
	capture  samplerout.Capture
	log      *slog.Logger
	smoothed atomic.Uint64
	running  atomic.Bool
	enabled  atomic.Bool
	done     chan struct{}
}

func NewSampler(capture samplerout.Capture, log *slog.Logger) *Sampler {
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{capture: capture, log: log}
}

// Start acquires the device and begins sampling. Device denial disables
// voice reactivity and leaves the intensity at its last value; it is never
// an error to the caller.
func (s *Sampler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	if s.capture == nil {
		s.running.Store(false)
		return
	}
	if err := s.capture.Start(); err != nil {
		s.log.Warn("audio capture unavailable, voice reactivity disabled", "err", err)
		s.running.Store(false)
		return
	}
	s.enabled.Store(true)
	s.done = make(chan struct{})
	go s.loop(s.done)
}

func (s *Sampler) loop(done chan struct{}) {
	smoother := domain.NewSmoother(domain.DefaultAlpha)
	smoother.Update(s.Intensity())
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !s.running.Load() {
				return
			}
			target := domain.Intensity(s.capture.Bins())
			s.smoothed.Store(math.Float64bits(smoother.Update(target)))
		}
	}
}

// Intensity is the smoothed scalar in [0,1]; zero before the first start.
func (s *Sampler) Intensity() float64 {
	return math.Float64frombits(s.smoothed.Load())
}

// Enabled reports whether a capture device was acquired.
func (s *Sampler) Enabled() bool {
	return s.enabled.Load()
}

func (s *Sampler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.done)
	s.capture.Stop()
	s.enabled.Store(false)
}
