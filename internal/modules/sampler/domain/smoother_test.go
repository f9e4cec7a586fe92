package domain

import (
	"math"
	"testing"
)

func TestSmootherConvergesWithoutOvershoot(t *testing.T) {
	t.Parallel()
	s := NewSmoother(DefaultAlpha)
	prev := 0.0
	for i := 0; i < 200; i++ {
		v := s.Update(1)
		if v < prev {
			t.Fatalf("smoother must approach the target monotonically, step %d: %v < %v", i, v, prev)
		}
		if v > 1 {
			t.Fatalf("smoother must not overshoot, got %v", v)
		}
		prev = v
	}
	if math.Abs(prev-1) > 0.001 {
		t.Fatalf("smoother should be near the target after 200 steps, got %v", prev)
	}
}

func TestSmootherSingleStepFraction(t *testing.T) {
	t.Parallel()
	s := NewSmoother(0.1)
	if got := s.Update(1); got != 0.1 {
		t.Fatalf("first step toward 1 should move 10%%, got %v", got)
	}
}

func TestSmootherClampsTarget(t *testing.T) {
	t.Parallel()
	s := NewSmoother(1)
	if got := s.Update(5); got != 1 {
		t.Fatalf("target above 1 must clamp, got %v", got)
	}
	if got := s.Update(-2); got != 0 {
		t.Fatalf("target below 0 must clamp, got %v", got)
	}
}

func TestSmootherRejectsBadAlpha(t *testing.T) {
	t.Parallel()
	s := NewSmoother(-3)
	if got := s.Update(1); got != DefaultAlpha {
		t.Fatalf("bad alpha should fall back to the default, got %v", got)
	}
}

func TestIntensityIsMeanOfBins(t *testing.T) {
	t.Parallel()
	if got := Intensity(nil); got != 0 {
		t.Fatalf("no bins means zero intensity, got %v", got)
	}
	if got := Intensity([]byte{255, 255, 255, 255}); got != 1 {
		t.Fatalf("saturated bins mean full intensity, got %v", got)
	}
	if got := Intensity([]byte{0, 255}); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
