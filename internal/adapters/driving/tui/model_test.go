package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/services"
)

// mockAskPort implements AskPort for testing.
type mockAskPort struct {
	answer *domain.Answer
	hits   []domain.SearchHit
	err    error
}

func (m *mockAskPort) Ask(_ context.Context, _ string, _ int) (*domain.Answer, []domain.SearchHit, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.answer, m.hits, nil
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestModel_InitialView(t *testing.T) {
	m := New(&mockAskPort{}, services.NewSession("proj"))

	assert.Equal(t, "Loading...", m.View())

	m = sized(m)
	view := m.View()
	assert.Contains(t, view, "codequery chat")
	assert.Contains(t, view, "proj")
	assert.Contains(t, view, "No questions yet.")
}

func TestModel_SubmitQuestion(t *testing.T) {
	port := &mockAskPort{
		answer: &domain.Answer{Text: "main() is the entry point", Sources: []string{"main.go"}},
	}
	m := sized(New(port, services.NewSession("proj")))

	m.input.SetValue("where does it start?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Contains(t, m.View(), "where does it start?")
	assert.Empty(t, m.input.Value())

	// Run the ask command and feed its result back in.
	msg := cmd()
	answer, ok := msg.(answerMsg)
	require.True(t, ok)

	updated, _ = m.Update(answer)
	m = updated.(Model)

	assert.False(t, m.busy)
	view := m.View()
	assert.Contains(t, view, "main() is the entry point")
	assert.Contains(t, view, "main.go")
}

func TestModel_BlankInputIgnored(t *testing.T) {
	m := sized(New(&mockAskPort{}, services.NewSession("proj")))

	m.input.SetValue("   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestModel_AskFailure(t *testing.T) {
	port := &mockAskPort{err: errors.New("collection unavailable")}
	m := sized(New(port, services.NewSession("proj")))

	m.input.SetValue("anything")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "collection unavailable")
}

func TestModel_QuitKeys(t *testing.T) {
	m := sized(New(&mockAskPort{}, services.NewSession("proj")))

	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd(), "key %v should quit", key)
	}
}

func TestModel_TypingUpdatesInput(t *testing.T) {
	m := sized(New(&mockAskPort{}, services.NewSession("proj")))

	for _, r := range "hi" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	assert.True(t, strings.Contains(m.input.Value(), "hi"))
}
