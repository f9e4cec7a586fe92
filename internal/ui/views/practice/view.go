package practice

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rehearse/internal/ui/theme"
)

// AnswerSubmittedMsg bubbles a finished answer up to the root model, which
// owns the analyzer and session wiring.
type AnswerSubmittedMsg struct {
	Question string
	Text     string
}

// defaultQuestions keeps the practice loop usable without a question bank
// file. Question generation itself lives outside this program.
var defaultQuestions = []string{
	"Tell me about a time you had to deliver under a tight deadline.",
	"Describe a conflict inside your team and how you resolved it.",
	"Walk me through a project you are most proud of.",
	"Tell me about a time you failed. What did you learn?",
	"Describe a situation where you had to influence without authority.",
	"How did you handle receiving difficult feedback?",
}

// Model is the question/answer panel of the practice tab. The glyph field
// and gauge render at the root; this panel only manages the dialogue.
type Model struct {
	input     textinput.Model
	questions []string
	question  string
	qIndex    int
	lastScore float64
	scored    bool
	active    bool
	width     int
}

// New builds the panel around the given question bank; an empty bank falls
// back to the built-in questions.
func New(questions []string) Model {
	if len(questions) == 0 {
		questions = defaultQuestions
	}
	ti := textinput.New()
	ti.Placeholder = "answer, then press enter…"
	ti.CharLimit = 2000
	return Model{input: ti, questions: questions}
}

// NextQuestion rotates through the bank and returns the question asked so
// the caller can record it.
func (m *Model) NextQuestion() string {
	question := m.questions[m.qIndex%len(m.questions)]
	m.qIndex++
	m.question = question
	m.active = true
	return question
}

// AskQuestion puts an externally supplied question to the user.
func (m *Model) AskQuestion(text string) {
	m.question = text
	m.active = true
}

func (m *Model) SetScore(score float64) {
	m.lastScore = score
	m.scored = true
}

func (m *Model) Deactivate() {
	m.active = false
	m.question = ""
	m.input.Blur()
	m.input.SetValue("")
}

// Answering reports whether the input has focus, in which case global key
// bindings must yield.
func (m Model) Answering() bool {
	return m.input.Focused()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 8

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if m.input.Focused() {
				text := m.input.Value()
				question := m.question
				m.input.SetValue("")
				m.input.Blur()
				if text == "" {
					return m, nil
				}
				return m, func() tea.Msg {
					return AnswerSubmittedMsg{Question: question, Text: text}
				}
			}
			return m, m.input.Focus()
		case "esc":
			m.input.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.active {
		return theme.Muted.Render("press s to start a session, n for the next question")
	}
	var score string
	if m.scored {
		score = theme.Hot.Render(fmt.Sprintf("  last score %.0f", m.lastScore))
	}
	question := theme.Title.Render("Q: ") + lipgloss.NewStyle().Foreground(theme.Text).Render(m.question)
	return question + score + "\n" + "> " + m.input.View()
}
