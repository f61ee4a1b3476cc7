package app

import (
	"bytes"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeca/conui/internal/menu"
	"github.com/jeca/conui/internal/session"
	"github.com/jeca/conui/internal/ui"
)

// transcriptLines is how much of the transcript the TUI keeps on screen.
const transcriptLines = 40

type model struct {
	runner     *Runner
	feed       *session.Feed[string]
	transcript *bytes.Buffer
	input      session.InputBuffer
	shell      bool

	notice   string
	err      error
	done     bool
	quitting bool
}

// NewTUI returns a bubbletea model that runs m as a token session. Typed
// lines are split into tokens, with shell quoting when shell is set, and
// fed to the runner one token at a time.
func NewTUI(m *menu.Menu, shell bool, log *slog.Logger) (tea.Model, error) {
	var transcript bytes.Buffer
	feed := &session.Feed[string]{}
	s := session.NewTokensFrom(feed,
		session.WithWriter(&transcript),
		session.WithLogger(log),
		session.WithDefaultPrompt(m.Prompt),
	)
	r := NewTokenRunner(s, m, &transcript, WithLogger(log), WithEcho())
	if err := r.Start(); err != nil {
		return nil, err
	}
	return model{runner: r, feed: feed, transcript: &transcript, shell: shell}, nil
}

// TUIErr returns the error that stopped a model returned by NewTUI.
func TUIErr(m tea.Model) error {
	if mm, ok := m.(model); ok {
		return mm.err
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyBackspace:
		m.input.Backspace()
	case tea.KeyRunes, tea.KeySpace:
		m.input.Append(msg.Runes)
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	tokens, err := session.SplitTokens(m.input.Submit(), m.shell)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""

	m.feed.Push(tokens...)
	for m.feed.Len() > 0 {
		done, err := m.runner.Step()
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		if done {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(tail(m.transcript.String(), transcriptLines))
	if m.done {
		return b.String()
	}

	b.WriteString(ui.PromptStyle.Render(m.runner.Prompt()))
	b.WriteString(m.input.Value)
	b.WriteString("█")
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(ui.ErrorStyle.Render(m.notice))
	}
	b.WriteString(ui.DimStyle.Render("\n\nenter submit • esc quit"))
	return b.String()
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "")
}
