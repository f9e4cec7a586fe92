package gauge

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rehearse/internal/ui/theme"
)

const (
	smoothing    = 0.05
	snapDistance = 0.5
	sweepDegrees = 180.0
	startDegrees = -90.0
)

// Zone is one of the three fixed bands of the dial.
type Zone struct {
	Label string
	Color lipgloss.Color
}

var (
	zoneNotReady    = Zone{Label: "not ready", Color: theme.Red}
	zoneAlmostReady = Zone{Label: "almost ready", Color: theme.Yellow}
	zoneReady       = Zone{Label: "ready", Color: theme.Green}
)

// ZoneFor maps a displayed value to its band. The displayed value, not the
// target, decides color and label, so a long transition visibly passes
// through intermediate zones.
func ZoneFor(displayed float64) Zone {
	switch {
	case displayed < 33:
		return zoneNotReady
	case displayed < 66:
		return zoneAlmostReady
	default:
		return zoneReady
	}
}

// Gauge renders a 0-100 readiness scalar as a dial with an animated needle.
// It holds no session knowledge; its output is a pure function of state and
// elapsed frames.
type Gauge struct {
	target    float64
	displayed float64
}

func New() *Gauge {
	return &Gauge{}
}

// SetReadiness clamps the value to [0,100] and starts an animated
// transition toward it.
func (g *Gauge) SetReadiness(value float64) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	g.target = value
}

// Step advances the needle one frame with the same one-pole smoothing the
// signal sampler uses, snapping once within half a point of the target.
func (g *Gauge) Step() {
	delta := g.target - g.displayed
	if delta < snapDistance && delta > -snapDistance {
		g.displayed = g.target
		return
	}
	g.displayed += delta * smoothing
}

func (g *Gauge) Displayed() float64 {
	return g.displayed
}

func (g *Gauge) Target() float64 {
	return g.target
}

// NeedleAngle maps the displayed value onto the dial sweep in degrees,
// -90 at empty to +90 at full.
func (g *Gauge) NeedleAngle() float64 {
	return startDegrees + g.displayed/100*sweepDegrees
}

// View renders the dial as a colored band with a needle marker and the
// zone label underneath.
func (g *Gauge) View(width int) string {
	if width < 10 {
		width = 10
	}
	band := renderBand(width)
	needlePos := int(g.displayed / 100 * float64(width-1))
	zone := ZoneFor(g.displayed)
	needleLine := strings.Repeat(" ", needlePos) + lipgloss.NewStyle().Foreground(zone.Color).Bold(true).Render("▲")
	label := lipgloss.NewStyle().Foreground(zone.Color).Bold(true).
		Render(fmt.Sprintf("%.0f · %s", g.displayed, zone.Label))
	return band + "\n" + needleLine + "\n" + label
}

func renderBand(width int) string {
	redEnd := width * 33 / 100
	yellowEnd := width * 66 / 100
	var b strings.Builder
	for i := 0; i < width; i++ {
		var color lipgloss.Color
		switch {
		case i < redEnd:
			color = theme.Red
		case i < yellowEnd:
			color = theme.Yellow
		default:
			color = theme.Green
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render("━"))
	}
	return b.String()
}
