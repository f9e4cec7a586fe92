package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyzerdto "rehearse/internal/modules/analyzer/dto"
	sessiondomain "rehearse/internal/modules/session/domain"
	sessiondto "rehearse/internal/modules/session/dto"
	"rehearse/internal/observability"
	"rehearse/internal/ui/components"
	"rehearse/internal/ui/gauge"
	"rehearse/internal/ui/rain"
	"rehearse/internal/ui/theme"
	practiceview "rehearse/internal/ui/views/practice"
	statsview "rehearse/internal/ui/views/stats"
)

const frameInterval = 33 * time.Millisecond

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.

type sessionPort interface {
	Create(ctx context.Context, input sessiondto.CreateInput) (sessiondto.SessionOutput, error)
	AddQuestion(ctx context.Context, text string) error
	AddAnswer(ctx context.Context, input sessiondto.AnswerInput) error
	Complete(ctx context.Context, score float64, feedback []sessiondomain.Feedback) (sessiondto.SessionOutput, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Current(ctx context.Context) (sessiondto.SessionOutput, bool)
	Readiness(ctx context.Context) float64
}

type analyzerPort interface {
	AnalyzeAnswer(ctx context.Context, input analyzerdto.AnalyzeInput) (analyzerdto.AnalyzeOutput, error)
}

type samplerPort interface {
	Intensity() float64
	Enabled() bool
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPractice tabID = iota
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Practice", "Stats"}

// ─── async messages ───────────────────────────────────────────────────────────

type frameMsg time.Time

type sessionStartedMsg struct {
	session sessiondto.SessionOutput
	err     error
}

type sessionEndedMsg struct {
	session   sessiondto.SessionOutput
	readiness float64
	err       error
}

type answerAnalyzedMsg struct {
	out analyzerdto.AnalyzeOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Session  key.Binding
	Question key.Binding
	End      key.Binding
	Mode     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Session:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Question: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next question")),
		End:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Session, k.Question, k.End, k.Mode, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Session, k.Question, k.End},
		{k.Mode, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the frame loop, tab routing,
// the glyph field, the gauge, and the practice flow; business logic is
// delegated to port interfaces.
type Model struct {
	session  sessionPort
	analyzer analyzerPort
	sampler  samplerPort
	engine   *rain.Engine
	gauge    *gauge.Gauge
	obs      *observability.Metrics

	practiceView practiceview.Model
	statsView    statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	hasSession    bool
	sessionScores []float64
	status        string
	width         int
	height        int
}

func NewModel(
	session sessionPort,
	analyzer analyzerPort,
	sampler samplerPort,
	engine *rain.Engine,
	statsPort statsview.StatsPort,
	obs *observability.Metrics,
	questions []string,
) Model {
	g := gauge.New()
	return Model{
		session:      session,
		analyzer:     analyzer,
		sampler:      sampler,
		engine:       engine,
		gauge:        g,
		obs:          obs,
		practiceView: practiceview.New(questions),
		statsView:    statsview.New(statsPort),
		activeTab:    tabPractice,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	m.engine.Start()
	m.gauge.SetReadiness(m.session.Readiness(context.Background()))
	return tea.Batch(m.statsView.Init(), frameTick())
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isFrame := msg.(frameMsg); !isFrame {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case frameMsg:
		m.engine.Step(time.Time(msg), m.sampler.Intensity())
		m.gauge.Step()
		if m.obs != nil {
			m.obs.FramesRendered.Inc()
		}
		return m, frameTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.engine.Resize(m.fieldWidth(), m.fieldHeight())
		m.propagateSize()

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "session start failed: " + msg.err.Error()
		} else {
			m.hasSession = true
			m.sessionScores = nil
			m.status = "session started: " + msg.session.Company
			if m.obs != nil {
				m.obs.ActiveSession.Set(1)
			}
			question := m.practiceView.NextQuestion()
			cmds = append(cmds, m.addQuestionCmd(question))
		}

	case sessionEndedMsg:
		if msg.err != nil {
			m.status = "session end failed: " + msg.err.Error()
		} else {
			m.hasSession = false
			m.practiceView.Deactivate()
			m.gauge.SetReadiness(msg.readiness)
			m.status = fmt.Sprintf("session complete: score %.0f, readiness %.1f", msg.session.Score, msg.readiness)
			if m.obs != nil {
				m.obs.ActiveSession.Set(0)
				m.obs.SessionsCompleted.Inc()
			}
			cmds = append(cmds, m.statsView.Reload())
		}

	case answerAnalyzedMsg:
		if msg.err != nil {
			m.status = "analysis failed: " + msg.err.Error()
		} else {
			m.sessionScores = append(m.sessionScores, msg.out.Score)
			m.practiceView.SetScore(msg.out.Score)
			m.status = fmt.Sprintf("answer scored %.0f", msg.out.Score)
			if m.hasSession {
				question := m.practiceView.NextQuestion()
				cmds = append(cmds, m.addQuestionCmd(question))
			}
		}

	case practiceview.AnswerSubmittedMsg:
		return m, m.analyzeCmd(msg.Text)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the answer input and list filter while they are active.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.engine.Destroy()
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabPractice && !m.hasSession {
				cmds = append(cmds, m.startSessionCmd("General", "medium"))
			}
		case "n":
			if m.activeTab == tabPractice && m.hasSession {
				question := m.practiceView.NextQuestion()
				cmds = append(cmds, m.addQuestionCmd(question))
			}
		case "e":
			if m.hasSession {
				cmds = append(cmds, m.endSessionCmd())
			}
		case "m":
			next := (m.engine.Mode() + 1) % 3
			m.engine.SetMode(next)
			m.status = "mode: " + next.String()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabPractice:
		m.practiceView, tabCmd = m.practiceView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabPractice:
		content = m.renderPractice()
	default:
		content = m.statsView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

// renderPractice composes the glyph field with the gauge sidebar and the
// question panel underneath.
func (m Model) renderPractice() string {
	field := m.engine.View()
	sidebar := m.renderSidebar()
	top := lipgloss.JoinHorizontal(lipgloss.Top, field, " ", sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.practiceView.View())
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Readiness") + "\n")
	b.WriteString(m.gauge.View(sidebarWidth-2) + "\n\n")
	b.WriteString(theme.Muted.Render("mode  ") + theme.Hot.Render(m.engine.Mode().String()) + "\n")
	if m.sampler.Enabled() {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("voice %.2f", m.sampler.Intensity())) + "\n")
	} else {
		b.WriteString(theme.Muted.Render("voice off") + "\n")
	}
	b.WriteString(theme.Muted.Render(fmt.Sprintf("fps   %.0f", m.engine.FPS())))
	return lipgloss.NewStyle().Width(sidebarWidth).Render(b.String())
}

const sidebarWidth = 24

func (m Model) fieldWidth() int {
	w := m.width - sidebarWidth - 1
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) fieldHeight() int {
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "rehearse  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasSession {
		left = theme.Hot.Render("● session") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		if len(parts) < 2 {
			m.status = "usage: session:start <company> [difficulty]"
			return m, nil
		}
		difficulty := "medium"
		if len(parts) >= 3 {
			difficulty = parts[2]
		}
		return m, m.startSessionCmd(parts[1], difficulty)

	case "session:end":
		if !m.hasSession {
			m.status = "no session in progress"
			return m, nil
		}
		return m, m.endSessionCmd()

	case "session:pause":
		return m, m.pauseCmd(true)

	case "session:resume":
		return m, m.pauseCmd(false)

	case "question:ask":
		if len(parts) < 2 {
			m.status = "usage: question:ask <text>"
			return m, nil
		}
		question := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		m.practiceView.AskQuestion(question)
		m.activeTab = tabPractice
		return m, m.addQuestionCmd(question)

	case "mode:practice", "mode:pressure", "mode:extreme":
		mode, err := rain.ParseMode(strings.TrimPrefix(parts[0], "mode:"))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.engine.SetMode(mode)
		m.status = "mode: " + mode.String()
		return m, nil

	case "gauge:set":
		if len(parts) < 2 {
			m.status = "usage: gauge:set <value>"
			return m, nil
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid value"
			return m, nil
		}
		m.gauge.SetReadiness(value)
		return m, nil

	case "rain:speed":
		if len(parts) >= 2 {
			if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
				m.engine.SetSpeed(v)
			}
		}
		return m, nil

	case "rain:opacity":
		if len(parts) >= 2 {
			if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
				m.engine.SetOpacity(v)
			}
		}
		return m, nil

	case "feedback:test":
		m.engine.QueueFeedback("Looking sharp", sessiondomain.FeedbackSuccess, 2*time.Second)
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether the active tab is capturing free text, in
// which case global key bindings must yield.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.Answering()
	case tabStats:
		return m.statsView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.practiceView, _ = m.practiceView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

// sessionScore averages the analyzer scores recorded during this session.
func (m Model) sessionScore() float64 {
	if len(m.sessionScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, score := range m.sessionScores {
		sum += score
	}
	return sum / float64(len(m.sessionScores))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startSessionCmd(company, difficulty string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.session.Create(ctx, sessiondto.CreateInput{
			Company:         company,
			Difficulty:      difficulty,
			Mode:            m.engine.Mode().String(),
			TargetReadiness: m.session.Readiness(ctx),
		})
		return sessionStartedMsg{session: out, err: err}
	}
}

func (m Model) addQuestionCmd(question string) tea.Cmd {
	return func() tea.Msg {
		_ = m.session.AddQuestion(context.Background(), question)
		return nil
	}
}

func (m Model) endSessionCmd() tea.Cmd {
	score := m.sessionScore()
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.session.Complete(ctx, score, nil)
		return sessionEndedMsg{session: out, readiness: m.session.Readiness(ctx), err: err}
	}
}

func (m Model) pauseCmd(pause bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if pause {
			_ = m.session.Pause(ctx)
		} else {
			_ = m.session.Resume(ctx)
		}
		return nil
	}
}

func (m Model) analyzeCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.analyzer.AnalyzeAnswer(ctx, analyzerdto.AnalyzeInput{Text: text})
		if err != nil {
			return answerAnalyzedMsg{err: err}
		}
		_ = m.session.AddAnswer(ctx, sessiondto.AnswerInput{
			Text:       text,
			Confidence: out.Metrics.Confidence,
			Clarity:    out.Metrics.Clarity,
			Structure:  out.Metrics.Structure,
		})
		return answerAnalyzedMsg{out: out}
	}
}
