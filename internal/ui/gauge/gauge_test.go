package gauge

import "testing"

func TestSetReadinessClamps(t *testing.T) {
	t.Parallel()
	g := New()
	g.SetReadiness(-50)
	if g.Target() != 0 {
		t.Fatalf("negative readiness must clamp to 0, got %v", g.Target())
	}
	g.SetReadiness(150)
	if g.Target() != 100 {
		t.Fatalf("readiness above 100 must clamp, got %v", g.Target())
	}
}

func TestZoneBoundaries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value float64
		label string
	}{
		{0, "not ready"},
		{32.9, "not ready"},
		{33, "almost ready"},
		{65.9, "almost ready"},
		{66, "ready"},
		{100, "ready"},
	}
	for _, tc := range cases {
		if got := ZoneFor(tc.value).Label; got != tc.label {
			t.Fatalf("ZoneFor(%v) = %q, want %q", tc.value, got, tc.label)
		}
	}
}

func TestStepConvergesAndSnaps(t *testing.T) {
	t.Parallel()
	g := New()
	g.SetReadiness(80)
	prev := g.Displayed()
	for i := 0; i < 500; i++ {
		g.Step()
		if g.Displayed() < prev {
			t.Fatalf("needle must move toward the target monotonically")
		}
		prev = g.Displayed()
	}
	if g.Displayed() != 80 {
		t.Fatalf("needle should snap onto the target, got %v", g.Displayed())
	}
}

func TestDisplayedValueDrivesZone(t *testing.T) {
	t.Parallel()
	g := New()
	g.SetReadiness(90)
	g.Step()
	// One frame in, the needle has barely moved; the zone must follow the
	// displayed value, not the target.
	if got := ZoneFor(g.Displayed()).Label; got != "not ready" {
		t.Fatalf("zone should track the displayed value, got %q", got)
	}
}

func TestNeedleAngleSweep(t *testing.T) {
	t.Parallel()
	g := New()
	if got := g.NeedleAngle(); got != -90 {
		t.Fatalf("empty gauge should point at -90, got %v", got)
	}
	g.SetReadiness(100)
	for i := 0; i < 1000; i++ {
		g.Step()
	}
	if got := g.NeedleAngle(); got != 90 {
		t.Fatalf("full gauge should point at +90, got %v", got)
	}
}
