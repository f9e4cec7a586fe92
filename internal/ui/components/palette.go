package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rehearse/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg reports that the palette was dismissed.
type PaletteCancelMsg struct{}

type paletteEntry struct {
	usage string
	about string
}

// entries must stay in sync with the switch in app/model.go executePalette.
var paletteEntries = []paletteEntry{
	{"session:start <company> [difficulty]", "begin a rehearsal session"},
	{"session:end", "complete the current session"},
	{"session:pause", "pause the current session"},
	{"session:resume", "resume a paused session"},
	{"question:ask <text>", "ask a custom question"},
	{"mode:practice", "gentle visual reaction"},
	{"mode:pressure", "stronger visual reaction"},
	{"mode:extreme", "maximum visual reaction"},
	{"gauge:set <value>", "override the readiness dial"},
	{"rain:speed <value>", "set the base fall speed"},
	{"rain:opacity <value>", "set the base trail opacity"},
	{"feedback:test", "flash a sample coaching note"},
}

const maxVisibleEntries = 6

var (
	paletteFrame = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Lavender).
			Background(theme.Mantle).
			Padding(0, 1)

	usageStyle   = lipgloss.NewStyle().Foreground(theme.Text)
	aboutStyle   = lipgloss.NewStyle().Foreground(theme.Subtext0)
	noMatchStyle = lipgloss.NewStyle().Foreground(theme.Subtext0).Italic(true)
)

// Palette is a command-line overlay. It filters the command table as the
// user types and tab-completes the leading verb.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = "run a command"
	ti.CharLimit = 128
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with a cleared input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.dismiss()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.dismiss()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) dismiss() {
	p.visible = false
	p.input.Blur()
}

// complete replaces the input with the verb of the first matching command,
// leaving a trailing space when the command takes arguments.
func (p *Palette) complete() {
	matches := matchEntries(p.input.Value())
	if len(matches) == 0 {
		return
	}
	verb, _, hasArgs := strings.Cut(matches[0].usage, " ")
	if hasArgs {
		verb += " "
	}
	p.input.SetValue(verb)
	p.input.CursorEnd()
}

// matchEntries filters the command table by substring, anywhere in the usage.
func matchEntries(query string) []paletteEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return paletteEntries
	}
	var out []paletteEntry
	for _, entry := range paletteEntries {
		if strings.Contains(entry.usage, query) {
			out = append(out, entry)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matches := matchEntries(p.input.Value())
	rows := []string{
		theme.Title.Render("Commands"),
		p.input.View(),
	}
	if len(matches) == 0 {
		rows = append(rows, noMatchStyle.Render("no matching command"))
	}
	for i, entry := range matches {
		if i == maxVisibleEntries {
			rows = append(rows, aboutStyle.Render(fmt.Sprintf("… %d more", len(matches)-maxVisibleEntries)))
			break
		}
		rows = append(rows, usageStyle.Render(entry.usage)+"  "+aboutStyle.Render(entry.about))
	}

	w := p.width - 2
	if w < 32 {
		w = 62
	}
	return paletteFrame.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
