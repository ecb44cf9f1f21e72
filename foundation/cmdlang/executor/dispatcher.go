// File: dispatcher.go
// Title: Command Dispatcher
// Description: Resolves namespace, command and argument abbreviations
//              against the registry, enforces required arguments and runs
//              one command at a time through the Executor.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: TCOL execution engine with service routing
// - 2026-10-19 v0.2.0: Abbreviation-based dispatch with single-flight execution

package executor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/cmdscript/foundation/cmdlang/abbrev"
	"github.com/msto63/cmdscript/foundation/cmdlang/lexer"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	mdwmapx "github.com/msto63/cmdscript/foundation/utils/mapx"
)

const suggestionLimit = 3

// Options configures a Dispatcher
type Options struct {
	Logger   *mdwlog.Logger
	Registry registry.Registry
	Executor Executor
	// Timeout bounds a single execution. Zero means no limit.
	Timeout        time.Duration
	SessionID      string
	EnableAuditLog bool
}

// Dispatcher validates and executes command lines
type Dispatcher struct {
	registry  registry.Registry
	executor  Executor
	logger    *mdwlog.Logger
	timeout   time.Duration
	sessionID string
	audit     bool
	// inflight serializes executions
	inflight sync.Mutex
}

type outcome struct {
	result *Result
	err    error
}

// NewDispatcher creates a dispatcher
func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Registry == nil {
		return nil, mdwerror.New("registry is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("executor.NewDispatcher")
	}
	if opts.Executor == nil {
		return nil, mdwerror.New("executor is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("executor.NewDispatcher")
	}

	logger := opts.Logger.WithField("component", "cmdlang-executor")
	if opts.SessionID != "" {
		logger = logger.WithSession(opts.SessionID)
	}
	return &Dispatcher{
		registry:  opts.Registry,
		executor:  opts.Executor,
		logger:    logger,
		timeout:   opts.Timeout,
		sessionID: opts.SessionID,
		audit:     opts.EnableAuditLog,
	}, nil
}

// ResolveNamespace returns the namespace word abbreviates
func (d *Dispatcher) ResolveNamespace(word string) (string, error) {
	namespaces := d.registry.Namespaces()
	ns, err := abbrev.Resolve(word, namespaces)
	if err != nil {
		return "", unresolved(err, "namespace '"+word+"' "+err.Error(), "executor.ResolveNamespace",
			abbrev.Suggest(word, namespaces, suggestionLimit))
	}
	return ns, nil
}

// DispatchLine tokenizes a substituted command line and dispatches it.
// The first word names the namespace. A malformed line is reported as an
// unknown command.
func (d *Dispatcher) DispatchLine(ctx context.Context, line string) (*Result, error) {
	parsed := lexer.Parse(line)
	if len(parsed.Words) == 0 {
		return nil, mdwerror.New("failed to find command '" + strings.TrimSpace(line) + "'").
			WithCode(mdwerror.CodeUnresolvedSymbol).
			WithOperation("executor.DispatchLine").
			WithDetail("reason", abbrev.ErrNoMatch.Error())
	}

	ns, err := d.ResolveNamespace(parsed.Words[0])
	if err != nil {
		return nil, err
	}
	return d.Dispatch(ctx, ns, strings.Join(parsed.Words[1:], " "), parsed.Arguments)
}

// Dispatch resolves phrase within namespace, validates args and executes
// the command. The executor is never invoked when validation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, namespace, phrase string, args map[string]string) (*Result, error) {
	commands := d.registry.Commands(namespace)
	command, err := abbrev.Resolve(phrase, commands)
	if err != nil {
		message := "failed to find command '" + phrase + "' (namespace: " + namespace + ")"
		if errors.Is(err, abbrev.ErrAmbiguous) {
			message = "command '" + phrase + "' is not unique (namespace: " + namespace + ")"
		}
		return nil, unresolved(err, message, "executor.Dispatch", abbrev.Suggest(phrase, commands, suggestionLimit)).
			WithDetail("namespace", namespace)
	}

	resolved, err := d.resolveArguments(namespace, command, args)
	if err != nil {
		return nil, err
	}

	return d.execute(ctx, &Request{
		ID:        uuid.NewString(),
		SessionID: d.sessionID,
		Namespace: namespace,
		Command:   command,
		Arguments: resolved,
	})
}

func (d *Dispatcher) resolveArguments(namespace, command string, args map[string]string) (map[string]string, error) {
	declared := d.registry.Arguments(namespace, command)
	qualified := namespace + " " + command

	keys := mdwmapx.SortedKeys(args)

	resolved := make(map[string]string, len(args))
	for _, key := range keys {
		name, err := abbrev.Resolve(key, declared)
		if err != nil {
			return nil, unresolved(err, "argument '"+key+"' isn't applicable to command: '"+qualified+"'", "executor.Dispatch",
				abbrev.Suggest(key, declared, suggestionLimit)).
				WithDetail("namespace", namespace).
				WithDetail("command", command)
		}
		if _, dup := resolved[name]; dup {
			return nil, mdwerror.New("argument '" + name + "' supplied more than once for command: '" + qualified + "'").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("executor.Dispatch")
		}
		value := args[key]
		if err := d.registry.TypeHint(namespace, command, name).Validate(value); err != nil {
			return nil, mdwerror.Wrap(err, "invalid value for argument '"+name+"'").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("executor.Dispatch").
				WithDetail("command", qualified)
		}
		resolved[name] = value
	}

	for _, name := range declared {
		if _, ok := resolved[name]; !ok && d.registry.IsArgumentRequired(namespace, command, name) {
			return nil, mdwerror.New("missing required argument '" + name + "' for command: '" + qualified + "'").
				WithCode(mdwerror.CodeMissingRequiredArgument).
				WithOperation("executor.Dispatch").
				WithDetail("argument", name)
		}
	}
	return resolved, nil
}

func (d *Dispatcher) execute(ctx context.Context, req *Request) (*Result, error) {
	d.inflight.Lock()
	defer d.inflight.Unlock()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	logger := d.logger.WithRequestID(req.ID)
	timer := logger.StartTimer("dispatch " + req.Namespace + " " + req.Command)

	outcomes := make(chan outcome, 1)
	var once sync.Once
	d.executor.Execute(ctx, req, func(result *Result, err error) {
		once.Do(func() { outcomes <- outcome{result, err} })
	})

	var out outcome
	select {
	case out = <-outcomes:
	case <-ctx.Done():
		code := mdwerror.CodeExecutionFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			code = mdwerror.CodeTimeout
		}
		out.err = mdwerror.Wrap(ctx.Err(), "command '"+req.Namespace+" "+req.Command+"' did not complete").
			WithCode(code)
	}

	duration := timer.StopWithError(out.err)
	if d.audit {
		d.auditCommand(logger, req, duration, out.err)
	}

	if out.err != nil {
		if _, ok := mdwerror.As(out.err); !ok {
			out.err = mdwerror.Wrap(out.err, "command '"+req.Namespace+" "+req.Command+"' failed").
				WithCode(mdwerror.CodeExecutionFailed)
		}
		return nil, out.err
	}

	result := out.result
	if result == nil {
		result = &Result{}
	}
	result.RequestID = req.ID
	result.Namespace = req.Namespace
	result.Command = req.Command
	result.Duration = duration
	return result, nil
}

func (d *Dispatcher) auditCommand(logger *mdwlog.Logger, req *Request, duration time.Duration, err error) {
	status := "COMPLETED"
	if err != nil {
		status = "FAILED"
	}
	logger.Audit("command dispatched", mdwlog.Fields{
		"namespace":  req.Namespace,
		"command":    req.Command,
		"arguments":  mdwmapx.SortedKeys(req.Arguments),
		"durationMs": duration.Milliseconds(),
		"status":     status,
	})
}

// unresolved builds an UNRESOLVED_SYMBOL error. Suggestions are named in
// the message only when nothing matched; an ambiguous input already
// matches several candidates.
func unresolved(cause error, message, operation string, suggestions []string) *mdwerror.Error {
	if errors.Is(cause, abbrev.ErrNoMatch) && len(suggestions) > 0 {
		message += " (did you mean: " + strings.Join(suggestions, ", ") + "?)"
	}
	return mdwerror.New(message).
		WithCode(mdwerror.CodeUnresolvedSymbol).
		WithOperation(operation).
		WithDetail("reason", cause.Error()).
		WithDetail("suggestions", suggestions)
}
