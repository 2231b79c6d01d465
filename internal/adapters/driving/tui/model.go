// Package tui implements the interactive chat surface over an indexed
// collection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/services"
)

// AskPort is the TUI-facing subset of the ask service.
type AskPort interface {
	Ask(ctx context.Context, question string, k int) (*domain.Answer, []domain.SearchHit, error)
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   *domain.Answer
	hits     []domain.SearchHit
}

// askErrMsg carries a failed ask back into the update loop.
type askErrMsg struct {
	question string
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	service  AskPort
	session  *services.Session
	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	transcript []string
	status     string
	busy       bool
	ready      bool
}

// New creates a chat model bound to an ask service and session.
func New(service AskPort, session *services.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the code"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		service:  service,
		session:  session,
		input:    ti,
		viewport: viewport.New(0, 0),
		styles:   NewStyles(DefaultTheme()),
		status:   fmt.Sprintf("Collection %q loaded. Type a question and press Enter.", session.Collection),
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := m.styles.AnswerBox.GetFrameSize()
		_, ih := m.styles.InputBox.GetFrameSize()
		reserved := 2 + ih + 1 // title, status, input frame, spacer
		vh := msg.Height - reserved - ah
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.busy {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.busy = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, m.styles.Question.Render("You: "+question))
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.askCmd(question)
		}

	case answerMsg:
		m.busy = false
		m.status = fmt.Sprintf("%d questions this session", m.session.Questions)
		m.transcript = append(m.transcript, m.renderAnswer(msg.answer))
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case askErrMsg:
		m.busy = false
		m.status = m.styles.StatusErr.Render("Error: " + msg.err.Error())
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := m.styles.Title.Render("codequery chat") +
		m.styles.Source.Render("  ("+m.session.Collection+")")
	transcript := m.styles.AnswerBox.Render(m.viewport.View())
	input := m.styles.InputBox.Render(m.input.View())

	status := m.status
	if m.busy {
		status = m.styles.StatusBusy.Render(m.status)
	}
	return title + "\n" + transcript + "\n" + input + "\n" + status
}

// askCmd runs the ask round-trip off the update loop.
func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, hits, err := m.service.Ask(context.Background(), question, services.DefaultTopK)
		if err != nil {
			return askErrMsg{question: question, err: err}
		}
		return answerMsg{question: question, answer: answer, hits: hits}
	}
}

func (m Model) renderAnswer(answer *domain.Answer) string {
	var b strings.Builder
	b.WriteString(answer.Text)
	if len(answer.Sources) > 0 {
		b.WriteString("\n")
		for _, src := range answer.Sources {
			b.WriteString(m.styles.Source.Render("  · "+src) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return m.styles.Source.Render("No questions yet.")
	}
	return strings.Join(m.transcript, "\n\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
