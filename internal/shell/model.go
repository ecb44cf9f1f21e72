// Package shell is the interactive front end of a session: a bubbletea
// REPL on terminals and a plain line reader otherwise.
package shell

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
)

const (
	maxScrollback = 5000
	headerHeight  = 2
	footerHeight  = 3
)

// entryMsg carries one presented entry
type entryMsg presenter.Entry

// lineDoneMsg reports that a line finished
type lineDoneMsg struct {
	err error
}

// Model is the interactive shell model
type Model struct {
	session *cmdlang.Session
	entries <-chan presenter.Entry
	ctx     context.Context
	prompt  string

	width   int
	height  int
	ready   bool
	running bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	lines []string

	// input history, oldest first; cursor == len(history) is the live line
	history []string
	cursor  int
	draft   string
}

// NewModel creates a shell for session. entries must receive everything
// the session presents.
func NewModel(ctx context.Context, session *cmdlang.Session, entries <-chan presenter.Entry, prompt string) Model {
	ti := textinput.New()
	ti.Placeholder = "namespace command arg=value, help, or exit"
	ti.Prompt = PromptStyle.Render(prompt)
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = PromptStyle

	return Model{
		session: session,
		entries: entries,
		ctx:     ctx,
		prompt:  prompt,
		input:   ti,
		spinner: sp,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEntry(m.entries))
}

func waitForEntry(entries <-chan presenter.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-entries
		if !ok {
			return nil
		}
		return entryMsg(entry)
	}
}

func (m Model) runLine(line string) tea.Cmd {
	return func() tea.Msg {
		return lineDoneMsg{err: m.session.HandleLine(m.ctx, line)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if m.running {
				return m, nil
			}
			if line == "exit" || line == "quit" {
				return m, tea.Quit
			}
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			m.remember(line)
			m.running = true
			return m, m.runLine(line)

		case "up":
			m.recall(-1)
			return m, nil

		case "down":
			m.recall(1)
			return m, nil

		case "ctrl+l":
			m.lines = nil
			m.updateContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		m.input.Width = max(msg.Width-len(m.prompt)-2, 10)
		m.updateContent()

	case entryMsg:
		m.appendEntry(presenter.Entry(msg))
		cmds = append(cmds, waitForEntry(m.entries))

	case lineDoneMsg:
		m.running = false

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	m.cursor = len(m.history)
	m.draft = ""
}

// recall moves through the input history by delta
func (m *Model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	if m.cursor == len(m.history) {
		m.draft = m.input.Value()
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.history))
	if m.cursor == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.cursor])
	}
	m.input.CursorEnd()
}

func (m *Model) appendEntry(entry presenter.Entry) {
	m.lines = append(m.lines, strings.Split(presenter.Styled(entry), "\n")...)
	if over := len(m.lines) - maxScrollback; over > 0 {
		m.lines = m.lines[over:]
	}
	m.updateContent()
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m Model) renderHeader() string {
	return TitleStyle.Render("cmdscript") + " " + SubtitleStyle.Render("session "+m.session.ID())
}

func (m Model) renderFooter() string {
	status := "ready"
	if m.running {
		status = m.spinner.View() + " running"
	}
	state := m.session.State().String()
	return StatusBarStyle.Render(status+" | "+state) + " " +
		HelpStyle.Render("enter: run  up/down: history  ctrl+l: clear  esc: quit")
}
