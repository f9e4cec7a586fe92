package rain

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	sessiondomain "rehearse/internal/modules/session/domain"
	"rehearse/internal/ui/theme"
)

var (
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9f7d4")).Bold(true)
	brightStyle = lipgloss.NewStyle().Foreground(theme.Green)
	midStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f9e5a"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#31502f"))
	blankCell   = " "
)

// renderGrid paints each column's glyph trail: a bright head with a tail
// fading toward the background, emulating the low-alpha trail of the field.
func (e *Engine) renderGrid() [][]string {
	grid := make([][]string, e.cfg.Height)
	for row := range grid {
		grid[row] = make([]string, e.cfg.Width)
		for colIdx := range grid[row] {
			grid[row][colIdx] = blankCell
		}
	}
	for _, col := range e.cols {
		if col.x >= e.cfg.Width {
			continue
		}
		head := int(col.y)
		for offset, glyph := range col.glyphs {
			row := head - offset
			if row < 0 || row >= e.cfg.Height {
				continue
			}
			grid[row][col.x] = e.styleFor(offset, len(col.glyphs), col.opacity).Render(string(glyph))
		}
	}
	return grid
}

// styleFor buckets trail position and column opacity into one of four
// brightness styles. Glow strength widens the bright band behind the head.
func (e *Engine) styleFor(offset, trailLen int, opacity float64) lipgloss.Style {
	position := float64(offset) / float64(trailLen)
	brightness := (1 - position) * opacity
	glowBand := 0.15 + 0.2*e.cfg.GlowStrength
	switch {
	case offset == 0 && opacity > 0.3:
		return headStyle
	case position < glowBand && brightness > 0.5:
		return brightStyle
	case brightness > 0.25:
		return midStyle
	default:
		return dimStyle
	}
}

var hudIcons = map[sessiondomain.FeedbackType]string{
	sessiondomain.FeedbackSuccess: "✓",
	sessiondomain.FeedbackWarning: "!",
	sessiondomain.FeedbackError:   "✗",
	sessiondomain.FeedbackInfo:    "i",
}

func hudAccent(kind sessiondomain.FeedbackType) lipgloss.Color {
	switch kind {
	case sessiondomain.FeedbackSuccess:
		return theme.Green
	case sessiondomain.FeedbackWarning:
		return theme.Yellow
	case sessiondomain.FeedbackError:
		return theme.Red
	default:
		return theme.Sapphire
	}
}

// overlayHUD draws the active feedback as a bordered box anchored to the
// top-right corner of the field.
func overlayHUD(lines []string, item hudItem, width int) []string {
	icon := hudIcons[item.kind]
	if icon == "" {
		icon = "i"
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(hudAccent(item.kind)).
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(0, 1).
		MaxWidth(width).
		Render(icon + " " + item.message)

	boxLines := strings.Split(box, "\n")
	for i, boxLine := range boxLines {
		if i >= len(lines) {
			break
		}
		pad := width - lipgloss.Width(boxLine) - 1
		if pad < 0 {
			pad = 0
		}
		lines[i] = strings.Repeat(" ", pad) + boxLine
	}
	return lines
}
