package rain

import (
	"errors"
	"sync"
	"testing"
	"time"

	sessiondomain "rehearse/internal/modules/session/domain"
	apperrors "rehearse/internal/platform/errors"
	"rehearse/internal/platform/rng"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newEngine(t *testing.T, cfg Config) (*Engine, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}
	e, err := New(cfg, rng.New(7), clk)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.Start()
	return e, clk
}

func defaultConfig() Config {
	return Config{Width: 20, Height: 10, BaseSpeed: 1, BaseOpacity: 0.8, VoiceReactive: true}
}

func TestNewRequiresSurface(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Width: 0, Height: 10}, rng.New(1), nil); !errors.Is(err, apperrors.ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
	if _, err := New(Config{Width: 10, Height: -1}, rng.New(1), nil); !errors.Is(err, apperrors.ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface for bad height, got %v", err)
	}
}

func TestZeroIntensityKeepsBaseSpeedInEveryMode(t *testing.T) {
	t.Parallel()
	for _, mode := range []Mode{ModePractice, ModePressure, ModeExtreme} {
		e, clk := newEngine(t, defaultConfig())
		e.SetMode(mode)
		e.Step(clk.Now(), 0)
		for _, col := range e.Columns() {
			if col.Speed != 1 {
				t.Fatalf("mode %s: zero intensity must keep base speed, got %v", mode, col.Speed)
			}
			if col.Opacity != 0.8 {
				t.Fatalf("mode %s: zero intensity must keep base opacity, got %v", mode, col.Opacity)
			}
		}
	}
}

func TestIntensityBoostScalesWithMode(t *testing.T) {
	t.Parallel()
	e, clk := newEngine(t, defaultConfig())
	e.SetMode(ModeExtreme)
	e.Step(clk.Now(), 1)
	for _, col := range e.Columns() {
		if col.Speed != 3 {
			t.Fatalf("full intensity in extreme mode should triple speed, got %v", col.Speed)
		}
		if col.Opacity != 1 {
			t.Fatalf("boosted opacity must clamp at 1, got %v", col.Opacity)
		}
	}
}

func TestFeedbackQueueBoundedAtThree(t *testing.T) {
	t.Parallel()
	e, clk := newEngine(t, defaultConfig())
	for _, msg := range []string{"one", "two", "three", "four"} {
		e.QueueFeedback(msg, sessiondomain.FeedbackInfo, 2*time.Second)
	}

	var displayed []string
	for i := 0; i < 10; i++ {
		if msg, _, ok := e.ActiveFeedback(); ok {
			if len(displayed) == 0 || displayed[len(displayed)-1] != msg {
				displayed = append(displayed, msg)
			}
		}
		clk.now = clk.now.Add(3 * time.Second)
		e.Step(clk.now, 0)
	}

	if len(displayed) != 3 {
		t.Fatalf("exactly three of four queued items must display, got %v", displayed)
	}
	want := []string{"one", "two", "three"}
	for i, msg := range want {
		if displayed[i] != msg {
			t.Fatalf("items must display in arrival order, got %v", displayed)
		}
	}
	if _, _, ok := e.ActiveFeedback(); ok {
		t.Fatalf("queue should drain completely")
	}
}

func TestFeedbackActivatesImmediatelyWhenIdle(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, defaultConfig())
	e.QueueFeedback("hello", sessiondomain.FeedbackSuccess, time.Second)
	msg, kind, ok := e.ActiveFeedback()
	if !ok || msg != "hello" || kind != sessiondomain.FeedbackSuccess {
		t.Fatalf("first item should display without a frame step, got %q %q %t", msg, kind, ok)
	}
}

func TestFeedbackFromAnotherGoroutineDuringSteps(t *testing.T) {
	t.Parallel()
	e, clk := newEngine(t, defaultConfig())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			e.QueueFeedback("note", sessiondomain.FeedbackInfo, time.Millisecond)
			_, _, _ = e.ActiveFeedback()
		}
	}()

	now := clk.Now()
	for i := 0; i < 300; i++ {
		now = now.Add(33 * time.Millisecond)
		e.Step(now, 0.4)
		_ = e.View()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		e.Step(now, 0)
	}
	if _, _, ok := e.ActiveFeedback(); ok {
		t.Fatalf("queue must drain after the burst")
	}
	if e.Frames() != 305 {
		t.Fatalf("every step must count exactly once, got %d", e.Frames())
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	t.Parallel()
	run := func() []ColumnState {
		clk := &fakeClock{now: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}
		e, err := New(defaultConfig(), rng.New(42), clk)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		e.Start()
		for i := 0; i < 50; i++ {
			e.Step(clk.now, 0.3)
			clk.now = clk.now.Add(33 * time.Millisecond)
		}
		return e.Columns()
	}
	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("column counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("column %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDestroyedEngineIgnoresEverything(t *testing.T) {
	t.Parallel()
	e, clk := newEngine(t, defaultConfig())
	e.Destroy()
	if e.Running() {
		t.Fatalf("destroyed engine must not run")
	}
	e.Start()
	if e.Running() {
		t.Fatalf("a destroyed engine must not restart")
	}
	e.QueueFeedback("late", sessiondomain.FeedbackInfo, time.Second)
	if _, _, ok := e.ActiveFeedback(); ok {
		t.Fatalf("destroyed engine must drop feedback")
	}
	frames := e.Frames()
	e.Step(clk.Now(), 1)
	if e.Frames() != frames {
		t.Fatalf("destroyed engine must not advance frames")
	}
	if e.View() != "" {
		t.Fatalf("destroyed engine renders nothing")
	}
}

func TestStoppedEngineSkipsSteps(t *testing.T) {
	t.Parallel()
	e, clk := newEngine(t, defaultConfig())
	e.Stop()
	e.Step(clk.Now(), 1)
	if e.Frames() != 0 {
		t.Fatalf("stopped engine must not step")
	}
	e.Start()
	e.Step(clk.Now(), 1)
	if e.Frames() != 1 {
		t.Fatalf("restarted engine should step again")
	}
}

func TestResizeRepartitionsColumns(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, defaultConfig())
	before := len(e.Columns())
	e.Resize(40, 12)
	after := len(e.Columns())
	if after <= before {
		t.Fatalf("wider surface should carry more columns: %d -> %d", before, after)
	}
	e.Resize(0, 12)
	if len(e.Columns()) != after {
		t.Fatalf("invalid resize must be ignored")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"practice", "pressure", "extreme"} {
		mode, err := ParseMode(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if mode.String() != name {
			t.Fatalf("round trip failed for %q, got %q", name, mode.String())
		}
	}
	if _, err := ParseMode("casual"); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
