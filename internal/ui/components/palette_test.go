package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"rehearse/internal/ui/components"
)

func press(t *testing.T, p components.Palette, msg tea.Msg) (components.Palette, tea.Msg) {
	t.Helper()
	p, cmd := p.Update(msg)
	if cmd == nil {
		return p, nil
	}
	return p, cmd()
}

func TestPaletteTabCompletesVerb(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	_ = p.Open()

	p, _ = press(t, p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("gauge")})
	p, _ = press(t, p, tea.KeyMsg{Type: tea.KeyTab})
	_, msg := press(t, p, tea.KeyMsg{Type: tea.KeyEnter})

	submit, ok := msg.(components.PaletteSubmitMsg)
	if !ok {
		t.Fatalf("enter should submit, got %T", msg)
	}
	if submit.Input != "gauge:set" {
		t.Fatalf("tab should complete the verb, got %q", submit.Input)
	}
}

func TestPaletteEscapeCancels(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	_ = p.Open()

	p, msg := press(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := msg.(components.PaletteCancelMsg); !ok {
		t.Fatalf("esc should cancel, got %T", msg)
	}
	if p.Visible() {
		t.Fatalf("cancelled palette must hide")
	}
}
