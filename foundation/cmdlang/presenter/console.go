// File: console.go
// Title: Console Presenter
// Description: Writes session output to a terminal or any writer, styled
//              with lipgloss when the target supports it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package presenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// Styles
var (
	CommandStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	ResultStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	MessageStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Plain renders an entry without styling
func Plain(e Entry) string {
	switch e.Kind {
	case KindCommand:
		return "> " + e.Text
	case KindError:
		return "error: " + e.Text
	case KindWarning:
		return "warning: " + e.Text
	default:
		return e.Text
	}
}

// Styled renders an entry with the console styles
func Styled(e Entry) string {
	text := Plain(e)
	switch e.Kind {
	case KindCommand:
		return CommandStyle.Render(text)
	case KindError:
		return ErrorStyle.Render(text)
	case KindWarning:
		return WarningStyle.Render(text)
	case KindResult:
		return ResultStyle.Render(text)
	default:
		return MessageStyle.Render(text)
	}
}

// Console writes entries to a writer
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styled bool
}

var _ Presenter = (*Console)(nil)

// NewConsole creates a console presenter. Styling is applied only when
// styled is set.
func NewConsole(out io.Writer, styled bool) *Console {
	return &Console{out: out, styled: styled}
}

func (c *Console) write(kind Kind, text string) {
	entry := Entry{Kind: kind, Text: text}
	line := Plain(entry)
	if c.styled {
		line = Styled(entry)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

func (c *Console) AppendMessage(text string) { c.write(KindMessage, text) }
func (c *Console) AppendError(text string) { c.write(KindError, text) }
func (c *Console) AppendWarning(text string) { c.write(KindWarning, text) }
func (c *Console) AppendCommand(text string) { c.write(KindCommand, text) }
func (c *Console) AppendResult(text string) { c.write(KindResult, text) }
