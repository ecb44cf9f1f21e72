package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

func testFactory(out presenter.Presenter) (*cmdlang.Session, error) {
	return cmdlang.NewSession(cmdlang.Options{
		Logger:    mdwlog.Discard(),
		Registry:  registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()}),
		Presenter: out,
	})
}

func TestRunLines(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`$x := "hi"`,
		"command echo variableName=x",
		"command echo variableName=missing",
		"exit",
		"command echo variableName=x",
	}, "\n"))
	var out bytes.Buffer

	err := RunLines(context.Background(), testFactory, Config{In: in, Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "> command echo variableName=x")
	assert.Equal(t, 1, strings.Count(text, "The value of variable 'x' is: 'hi'"))
	assert.Contains(t, text, "error: ")
	assert.NotContains(t, text, DefaultPrompt, "no prompt on a non-terminal writer")
}

func TestRun_FallsBackToLineMode(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), testFactory, Config{
		In:  strings.NewReader("help\n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Available namespaces:")
}

func TestRun_RequiresFactory(t *testing.T) {
	err := Run(context.Background(), nil, Config{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))
}

func newTestModel(t *testing.T) (Model, chan presenter.Entry) {
	t.Helper()
	entries := make(chan presenter.Entry, 16)
	session, err := testFactory(presenter.Func(func(e presenter.Entry) { entries <- e }))
	require.NoError(t, err)

	m := NewModel(context.Background(), session, entries, DefaultPrompt)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), entries
}

func key(m Model, k tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

func TestModel_RunsLine(t *testing.T) {
	m, entries := newTestModel(t)
	require.True(t, m.ready)

	m.input.SetValue("$x := 1")
	m, cmd := key(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.running)
	assert.Empty(t, m.input.Value())

	msg := m.runLine("$x := 1")()
	assert.IsType(t, lineDoneMsg{}, msg)
	assert.True(t, m.session.Variables().Exists("x"))

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.running)

	require.NoError(t, m.session.Variables().Set("y", "z"))
	require.NoError(t, m.session.HandleLine(context.Background(), "command echo variableName=y"))
	for len(entries) > 0 {
		updated, _ = m.Update(entryMsg(<-entries))
		m = updated.(Model)
	}
	assert.Contains(t, strings.Join(m.lines, "\n"), "The value of variable 'y' is: 'z'")
}

func TestModel_History(t *testing.T) {
	m, _ := newTestModel(t)
	m.remember("network list")
	m.remember("node list")
	m.remember("node list")
	assert.Len(t, m.history, 2)

	m.input.SetValue("draft")
	m, _ = key(m, tea.KeyUp)
	assert.Equal(t, "node list", m.input.Value())
	m, _ = key(m, tea.KeyUp)
	m, _ = key(m, tea.KeyUp)
	assert.Equal(t, "network list", m.input.Value())
	m, _ = key(m, tea.KeyDown)
	m, _ = key(m, tea.KeyDown)
	assert.Equal(t, "draft", m.input.Value())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("exit")
	_, cmd := key(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = key(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ClearScrollback(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(entryMsg{Kind: presenter.KindMessage, Text: "one\ntwo"})
	m = updated.(Model)
	assert.Len(t, m.lines, 2)

	m, _ = key(m, tea.KeyCtrlL)
	assert.Empty(t, m.lines)
}
