package rain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	sessiondomain "rehearse/internal/modules/session/domain"
	"rehearse/internal/platform/clock"
	apperrors "rehearse/internal/platform/errors"
	"rehearse/internal/platform/rng"
)

// Mode selects how hard voice intensity drives the visuals.
type Mode int

const (
	ModePractice Mode = iota
	ModePressure
	ModeExtreme
)

func (m Mode) Multiplier() float64 {
	switch m {
	case ModePressure:
		return 1.2
	case ModeExtreme:
		return 2.0
	default:
		return 0.6
	}
}

func (m Mode) String() string {
	switch m {
	case ModePressure:
		return "pressure"
	case ModeExtreme:
		return "extreme"
	default:
		return "practice"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "practice":
		return ModePractice, nil
	case "pressure":
		return ModePressure, nil
	case "extreme":
		return ModeExtreme, nil
	}
	return ModePractice, fmt.Errorf("unknown interview mode: %s", s)
}

type Config struct {
	Width         int
	Height        int
	BaseSpeed     float64
	BaseOpacity   float64
	GlyphDensity  int
	GlowStrength  float64
	VoiceReactive bool
}

// maxOutstanding bounds the HUD queue: one active item plus two pending;
// later arrivals are dropped rather than piling up stale coaching notes.
const maxOutstanding = 3

const columnStride = 2

var glyphSet = []rune("アイウエオカキクケコサシスセソタチツテトナニヌネノ0123456789ABCDEFXZ$+*=<>")

type column struct {
	x       int
	y       float64
	speed   float64
	opacity float64
	glyphs  []rune
}

type hudItem struct {
	message  string
	kind     sessiondomain.FeedbackType
	duration time.Duration
}

// Engine owns the falling glyph field and the feedback HUD. The frame loop
// steps it while feedback arrives from command goroutines, so a mutex guards
// all state.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	rng   rng.Source
	clock clock.Clock
	cols  []column
	mode  Mode

	baseSpeed   float64
	baseOpacity float64

	queue       []hudItem
	active      *hudItem
	activeUntil time.Time

	frames      uint64
	fps         float64
	fpsFrames   int
	fpsMarkedAt time.Time

	running   bool
	destroyed bool
}

func New(cfg Config, source rng.Source, clk clock.Clock) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.ErrNoSurface
	}
	if cfg.GlyphDensity <= 0 {
		cfg.GlyphDensity = 12
	}
	if cfg.BaseSpeed <= 0 {
		cfg.BaseSpeed = 1
	}
	if cfg.BaseOpacity <= 0 || cfg.BaseOpacity > 1 {
		cfg.BaseOpacity = 0.8
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	e := &Engine{
		cfg:         cfg,
		rng:         source,
		clock:       clk,
		baseSpeed:   cfg.BaseSpeed,
		baseOpacity: cfg.BaseOpacity,
	}
	e.seedColumns()
	return e, nil
}

func (e *Engine) seedColumns() {
	count := e.cfg.Width / columnStride
	if count < 1 {
		count = 1
	}
	e.cols = make([]column, count)
	for i := range e.cols {
		e.cols[i] = column{
			x:       i * columnStride,
			y:       float64(e.rng.Intn(e.cfg.Height * 2)),
			speed:   e.baseSpeed,
			opacity: e.baseOpacity,
			glyphs:  e.randomGlyphs(),
		}
	}
}

func (e *Engine) randomGlyphs() []rune {
	length := e.cfg.GlyphDensity/2 + e.rng.Intn(e.cfg.GlyphDensity)
	if length < 3 {
		length = 3
	}
	glyphs := make([]rune, length)
	for i := range glyphs {
		glyphs[i] = glyphSet[e.rng.Intn(len(glyphSet))]
	}
	return glyphs
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.running = true
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Destroy stops the engine for good; a destroyed engine ignores every call.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.destroyed = true
	e.cols = nil
	e.queue = nil
	e.active = nil
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running && !e.destroyed
}

func (e *Engine) SetMode(mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
}

func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *Engine) SetSpeed(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v > 0 {
		e.baseSpeed = v
	}
}

func (e *Engine) SetOpacity(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v > 0 && v <= 1 {
		e.baseOpacity = v
	}
}

func (e *Engine) FPS() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fps
}

func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Resize re-partitions the surface. Column state is reseeded; the HUD and
// counters carry over.
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || width <= 0 || height <= 0 {
		return
	}
	e.cfg.Width = width
	e.cfg.Height = height
	e.seedColumns()
}

// QueueFeedback appends a HUD item. When nothing is displayed the new item
// becomes active immediately.
func (e *Engine) QueueFeedback(message string, kind sessiondomain.FeedbackType, duration time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if duration <= 0 {
		duration = 3 * time.Second
	}
	outstanding := len(e.queue)
	if e.active != nil {
		outstanding++
	}
	if outstanding >= maxOutstanding {
		return
	}
	item := hudItem{message: message, kind: kind, duration: duration}
	if e.active == nil {
		e.activate(item, e.clock.Now())
		return
	}
	e.queue = append(e.queue, item)
}

func (e *Engine) activate(item hudItem, now time.Time) {
	e.active = &item
	e.activeUntil = now.Add(item.duration)
}

// ActiveFeedback exposes the currently displayed HUD message, if any.
func (e *Engine) ActiveFeedback() (string, sessiondomain.FeedbackType, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return "", "", false
	}
	return e.active.message, e.active.kind, true
}

// Step advances one frame: columns fall, the HUD rotates, the frame counter
// ticks. A stopped or destroyed engine no-ops so in-flight ticks are safe.
func (e *Engine) Step(now time.Time, intensity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.destroyed {
		return
	}

	for i := range e.cols {
		col := &e.cols[i]
		speed := e.baseSpeed
		opacity := e.baseOpacity
		if e.cfg.VoiceReactive {
			boost := 1 + intensity*e.mode.Multiplier()
			speed *= boost
			opacity *= boost
			if opacity > 1 {
				opacity = 1
			}
		}
		col.speed = speed
		col.opacity = opacity
		col.y += speed
		if col.y-float64(len(col.glyphs)) > float64(e.cfg.Height) {
			// Randomized respawn keeps columns from falling in lockstep.
			if e.rng.Float64() < 0.75 {
				col.y = -float64(e.rng.Intn(e.cfg.Height))
				col.glyphs = e.randomGlyphs()
			}
		}
	}

	if e.active != nil && !now.Before(e.activeUntil) {
		e.active = nil
		if len(e.queue) > 0 {
			next := e.queue[0]
			e.queue = e.queue[1:]
			e.activate(next, now)
		}
	}

	e.frames++
	e.fpsFrames++
	if e.fpsMarkedAt.IsZero() {
		e.fpsMarkedAt = now
	} else if elapsed := now.Sub(e.fpsMarkedAt); elapsed >= time.Second {
		e.fps = float64(e.fpsFrames) / elapsed.Seconds()
		e.fpsFrames = 0
		e.fpsMarkedAt = now
	}
}

// Columns exposes per-column speed and opacity for inspection.
func (e *Engine) Columns() []ColumnState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ColumnState, len(e.cols))
	for i, col := range e.cols {
		out[i] = ColumnState{X: col.x, Y: col.y, Speed: col.speed, Opacity: col.opacity}
	}
	return out
}

type ColumnState struct {
	X       int
	Y       float64
	Speed   float64
	Opacity float64
}

// View renders the glyph field with the HUD overlay in the top-right corner.
func (e *Engine) View() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ""
	}
	grid := e.renderGrid()
	lines := make([]string, e.cfg.Height)
	for row := 0; row < e.cfg.Height; row++ {
		var b strings.Builder
		for colIdx := 0; colIdx < e.cfg.Width; colIdx++ {
			b.WriteString(grid[row][colIdx])
		}
		lines[row] = b.String()
	}
	if e.active != nil {
		lines = overlayHUD(lines, *e.active, e.cfg.Width)
	}
	return strings.Join(lines, "\n")
}
