// File: session.go
// Title: Command Language Session
// Description: One interpreter instance: owns the variable store and the
//              control-flow machine, replays loop bodies, renders help and
//              dispatches executable lines one at a time.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: TCOL engine coordinating parser, executor and registry
// - 2026-10-19 v0.2.0: Line-oriented sessions with variables and control flow

package cmdlang

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/cmdscript/foundation/cmdlang/executor"
	"github.com/msto63/cmdscript/foundation/cmdlang/expression"
	"github.com/msto63/cmdscript/foundation/cmdlang/interpreter"
	"github.com/msto63/cmdscript/foundation/cmdlang/lexer"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	"github.com/msto63/cmdscript/foundation/cmdlang/variables"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// CommentPrefix starts a line that is ignored
const CommentPrefix = "#"

// Record describes one executed command line
type Record struct {
	SessionID string
	Line      string
	Namespace string
	Command   string
	Status    string
	Result    string
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// Record statuses
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Recorder receives a Record for every dispatched line
type Recorder interface {
	Record(ctx context.Context, record *Record) error
}

// Options configures a Session
type Options struct {
	// Logger for session operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// Registry lists the commands that can be dispatched. Builtin
	// namespaces are always added.
	Registry registry.Registry

	// Executor runs dispatched commands. When nil and Registry is a
	// *registry.Catalog, a catalog executor is used.
	Executor executor.Executor

	// Evaluator evaluates conditions and assignment expressions
	// (default: expr-lang evaluator)
	Evaluator expression.Evaluator

	// Presenter receives all output (default: plain console on stdout)
	Presenter presenter.Presenter

	// MaxLoopIterations bounds loop replays (default: 10000, negative
	// disables the limit)
	MaxLoopIterations int

	// ExecutionTimeout bounds a single dispatch (default: none)
	ExecutionTimeout time.Duration

	// Recorder receives a record of every dispatched line (optional)
	Recorder Recorder

	// Builtins adds namespaces served by their handlers
	Builtins []*registry.NamespaceDefinition
}

// Session is an independent interpreter instance. Lines are processed
// strictly one at a time.
type Session struct {
	id         string
	store      *variables.Store
	machine    *interpreter.Machine
	registry   registry.Registry
	dispatcher *executor.Dispatcher
	presenter  presenter.Presenter
	recorder   Recorder
	logger     *mdwlog.Logger
	mu         sync.Mutex
}

// NewSession creates a session with an empty variable store
func NewSession(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Evaluator == nil {
		opts.Evaluator = expression.New()
	}
	if opts.Presenter == nil {
		opts.Presenter = presenter.NewConsole(os.Stdout, false)
	}

	id := uuid.NewString()
	logger := opts.Logger.WithField("component", "cmdlang-session").WithSession(id)
	s := &Session{
		id:        id,
		store:     variables.NewStore(),
		presenter: opts.Presenter,
		recorder:  opts.Recorder,
		logger:    logger,
	}
	s.machine = interpreter.NewMachine(s.store, opts.Evaluator, interpreter.Options{
		Logger:            logger,
		MaxLoopIterations: opts.MaxLoopIterations,
	})

	builtins := registry.NewCatalog(registry.Options{Logger: logger})
	for _, ns := range append([]*registry.NamespaceDefinition{s.builtinNamespace()}, opts.Builtins...) {
		if err := builtins.Register(ns); err != nil {
			return nil, mdwerror.Wrap(err, "failed to register builtin commands").
				WithOperation("cmdlang.NewSession")
		}
	}

	external := opts.Executor
	if external == nil {
		if catalog, ok := opts.Registry.(*registry.Catalog); ok {
			external = executor.NewCatalogExecutor(catalog, executor.CatalogOptions{Logger: logger})
		}
	}
	s.registry = &composite{builtins: builtins, external: opts.Registry}

	dispatcher, err := executor.NewDispatcher(executor.Options{
		Logger:   logger,
		Registry: s.registry,
		Executor: &router{
			builtins: builtins,
			builtin:  executor.NewCatalogExecutor(builtins, executor.CatalogOptions{Logger: logger}),
			external: external,
		},
		Timeout:        opts.ExecutionTimeout,
		SessionID:      id,
		EnableAuditLog: true,
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher = dispatcher

	logger.Debug("session created", mdwlog.Fields{
		"namespaceCount":    len(s.registry.Namespaces()),
		"maxLoopIterations": opts.MaxLoopIterations,
		"executionTimeout":  opts.ExecutionTimeout,
	})
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Variables returns the variable store of the session
func (s *Session) Variables() *variables.Store {
	return s.store
}

// State returns the control-flow state
func (s *Session) State() interpreter.State {
	return s.machine.State()
}

// Registry returns the registry including builtin namespaces
func (s *Session) Registry() registry.Registry {
	return s.registry
}

// HandleLine processes one input line. Blank lines and comments are
// ignored. An END FOR whose condition holds replays the loop body before
// HandleLine returns. Errors are reported to the presenter and returned.
func (s *Session) HandleLine(ctx context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle(ctx, line)
}

func (s *Session) handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return nil
	}

	stmt, err := s.machine.Process(line)
	if err != nil {
		s.report(err)
		return err
	}
	return s.execute(ctx, stmt)
}

func (s *Session) execute(ctx context.Context, stmt interpreter.Statement) error {
	switch stmt.Kind {
	case interpreter.StatementPlain:
		return s.run(ctx, stmt.Text, "")
	case interpreter.StatementAssignment:
		return s.run(ctx, stmt.Text, stmt.Target)
	case interpreter.StatementLoopBody:
		return s.replay(ctx, stmt.Lines)
	}
	return nil
}

// replay runs the loop body once per true evaluation of the loop
// condition. A failing body line is reported and the pass continues.
func (s *Session) replay(ctx context.Context, lines []string) error {
	passes := 0
	for {
		for _, line := range lines {
			if err := ctx.Err(); err != nil {
				s.machine.Reset()
				wrapped := mdwerror.Wrap(err, "loop interrupted").
					WithCode(mdwerror.CodeExecutionFailed).
					WithOperation("cmdlang.replay")
				s.report(wrapped)
				return wrapped
			}
			stmt, err := s.machine.Process(line)
			if err != nil {
				s.report(err)
				continue
			}
			_ = s.execute(ctx, stmt)
		}
		passes++

		next, err := s.machine.ContinueLoop()
		if err != nil {
			s.report(err)
			return err
		}
		if next.Kind != interpreter.StatementLoopBody {
			s.logger.Debug("loop replayed", mdwlog.Fields{"passes": passes})
			return nil
		}
		lines = next.Lines
	}
}

// run dispatches a substituted line, or renders help, and binds the
// result to target when set
func (s *Session) run(ctx context.Context, text, target string) error {
	s.presenter.AppendCommand(text)

	parsed := lexer.Parse(text)
	if isHelp(parsed.Words) {
		out, err := s.Help(parsed.Words[1:])
		if err != nil {
			s.report(err)
			return err
		}
		if target != "" {
			return s.bind(target, out)
		}
		s.presenter.AppendMessage(out)
		return nil
	}

	started := time.Now()
	result, err := s.dispatcher.DispatchLine(ctx, text)
	s.record(ctx, text, result, err, time.Since(started))
	if err != nil {
		s.report(err)
		return err
	}

	out := result.String()
	if target != "" {
		return s.bind(target, out)
	}
	if out != "" {
		s.presenter.AppendResult(out)
	}
	return nil
}

func (s *Session) bind(target, value string) error {
	if err := s.store.Set(target, value); err != nil {
		s.report(err)
		return err
	}
	s.logger.Debug("variable assigned from command", mdwlog.Fields{"variable": target})
	return nil
}

func (s *Session) record(ctx context.Context, line string, result *executor.Result, err error, duration time.Duration) {
	if s.recorder == nil {
		return
	}
	rec := &Record{
		SessionID: s.id,
		Line:      line,
		Status:    StatusOK,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	if result != nil {
		rec.Namespace = result.Namespace
		rec.Command = result.Command
		rec.Result = result.String()
	}
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		if mdwErr, ok := mdwerror.As(err); ok {
			if ns, ok := mdwErr.Detail("namespace"); ok {
				rec.Namespace, _ = ns.(string)
			}
		}
	}
	if recErr := s.recorder.Record(ctx, rec); recErr != nil {
		s.logger.WarnWithErr("cannot record command", recErr)
	}
}

// report hands err to the presenter and the log. Only the message is
// presented.
func (s *Session) report(err error) {
	s.presenter.AppendError(err.Error())
	s.logger.LogError(err)
}
