package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// DefaultPrompt is shown in front of every input line
const DefaultPrompt = "cmd> "

// SessionFactory creates a session whose output goes to out
type SessionFactory func(out presenter.Presenter) (*cmdlang.Session, error)

// Config configures a shell run
type Config struct {
	Prompt string
	In     io.Reader
	Out    io.Writer
	// LineMode forces the plain reader even on a terminal
	LineMode bool
}

func (c *Config) applyDefaults() {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
}

// Run starts an interactive session and returns when the user quits or
// ctx is cancelled.
func Run(ctx context.Context, factory SessionFactory, cfg Config) error {
	if factory == nil {
		return mdwerror.New("session factory is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("shell.Run")
	}
	cfg.applyDefaults()

	if !cfg.LineMode && isTerminal(cfg.In) && isTerminal(cfg.Out) {
		return runInteractive(ctx, factory, cfg)
	}
	return RunLines(ctx, factory, cfg)
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runInteractive(ctx context.Context, factory SessionFactory, cfg Config) error {
	entries := make(chan presenter.Entry, 256)
	session, err := factory(presenter.Func(func(e presenter.Entry) {
		select {
		case entries <- e:
		case <-ctx.Done():
		}
	}))
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewModel(ctx, session, entries, cfg.Prompt),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return mdwerror.Wrap(err, "shell failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation("shell.Run")
	}
	return nil
}

// RunLines reads lines from cfg.In until EOF, "exit" or "quit" and feeds
// them to a fresh session. Output is colored only when cfg.Out is a
// terminal.
func RunLines(ctx context.Context, factory SessionFactory, cfg Config) error {
	if factory == nil {
		return mdwerror.New("session factory is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("shell.RunLines")
	}
	cfg.applyDefaults()

	styled := isTerminal(cfg.Out)
	session, err := factory(presenter.NewConsole(cfg.Out, styled))
	if err != nil {
		return err
	}

	prompt := func() {
		if styled {
			fmt.Fprint(cfg.Out, PromptStyle.Render(cfg.Prompt))
		}
	}

	scanner := bufio.NewScanner(cfg.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		// line failures are already presented
		_ = session.HandleLine(ctx, line)
		prompt()
	}
	if err := scanner.Err(); err != nil {
		return mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("shell.RunLines")
	}
	return nil
}
