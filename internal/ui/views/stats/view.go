package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondomain "rehearse/internal/modules/session/domain"
	"rehearse/internal/modules/session/dto"
	"rehearse/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Stats(ctx context.Context) (dto.StatsOutput, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
	Timeline(ctx context.Context) ([]sessiondomain.TimelineEntry, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Stats    dto.StatsOutput
	Sessions []dto.SessionOutput
	Timeline []sessiondomain.TimelineEntry
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session dto.SessionOutput
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s · %s", i.session.Company, i.session.Status)
}

func (i sessionItem) Description() string {
	return fmt.Sprintf("score %.0f · %d questions · %s", i.session.Score, i.session.QuestionCount, i.session.Duration.Round(time.Second))
}

func (i sessionItem) FilterValue() string { return i.session.Company }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     StatsPort
	list     list.Model
	stats    dto.StatsOutput
	timeline []sessiondomain.TimelineEntry
	loaded   bool
	width    int
	height   int
}

func New(port StatsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload refetches stats and the session list.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("stats port not configured")}
		}
		ctx := context.Background()
		stats, err := m.port.Stats(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		sessions, err := m.port.List(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		timeline, err := m.port.Timeline(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Stats: stats, Sessions: sessions, Timeline: timeline}
	}
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width/2, m.height-2)

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Sessions — " + msg.Err.Error()
			return m, nil
		}
		m.loaded = true
		m.stats = msg.Stats
		m.timeline = msg.Timeline
		items := make([]list.Item, len(msg.Sessions))
		for i, session := range msg.Sessions {
			items[i] = sessionItem{session: session}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	left := m.list.View()
	right := m.renderSummary()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m Model) renderSummary() string {
	if !m.loaded {
		return theme.Muted.Render("loading…")
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render("Aggregate") + "\n\n")
	b.WriteString(fmt.Sprintf("completed     %d\n", m.stats.TotalInterviews))
	b.WriteString(fmt.Sprintf("average score %.1f\n", m.stats.AverageScore))
	b.WriteString(fmt.Sprintf("best score    %.1f\n", m.stats.BestScore))
	b.WriteString(fmt.Sprintf("practice time %s\n", m.stats.TotalDuration.Round(time.Minute)))
	b.WriteString(fmt.Sprintf("readiness     %.1f\n", m.stats.Readiness))
	if len(m.stats.Companies) > 0 {
		b.WriteString("companies     " + strings.Join(m.stats.Companies, ", ") + "\n")
	}
	if len(m.stats.RecentTrend) > 0 {
		b.WriteString("\n" + theme.Title.Render("Trend") + "\n")
		b.WriteString(renderTrend(m.stats.RecentTrend) + "\n")
	}
	if len(m.timeline) > 0 {
		b.WriteString("\n" + theme.Title.Render("Timeline") + "\n")
		for _, entry := range m.timeline {
			b.WriteString(theme.Muted.Render(entry.EndedAt.Format("Jan 02 15:04")) +
				fmt.Sprintf("  %-12s %.0f\n", entry.Company, entry.Score))
		}
	}
	return b.String()
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func renderTrend(scores []float64) string {
	var b strings.Builder
	for _, score := range scores {
		idx := int(score / 100 * float64(len(sparkRunes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return theme.Hot.Render(b.String())
}
