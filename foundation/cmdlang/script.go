// File: script.go
// Title: Script Runner
// Description: Runs command language scripts line by line, seeding the
//              variable store from script arguments first.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package cmdlang

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/msto63/cmdscript/foundation/cmdlang/variables"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

const maxLineLength = 1024 * 1024

// LineError is a failed script line
type LineError struct {
	Line int
	Text string
	Err  error
}

// ScriptReport summarizes a script run
type ScriptReport struct {
	Lines    int
	Failed   []LineError
	Duration time.Duration
}

// OK reports whether every line succeeded
func (r *ScriptReport) OK() bool {
	return len(r.Failed) == 0
}

// SeedArguments binds "k:v,k:v" script arguments. Values are typed by
// inference.
func (s *Session) SeedArguments(args string) error {
	bindings, err := variables.ParseAssignments(args)
	if err != nil {
		s.report(err)
		return err
	}
	for name, value := range bindings {
		if err := s.store.Set(name, value); err != nil {
			s.report(err)
			return err
		}
	}
	return nil
}

// RunScript seeds args and processes every line of r. A failing line is
// reported and the run continues. The returned error is set only when the
// script could not be run to its end.
func (s *Session) RunScript(ctx context.Context, r io.Reader, args string) (*ScriptReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &ScriptReport{}
	timer := s.logger.StartTimer("script run").WithLevel(mdwlog.LevelInfo)
	if err := s.SeedArguments(args); err != nil {
		timer.StopWithError(err)
		return report, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			wrapped := mdwerror.Wrap(err, "script interrupted").
				WithCode(mdwerror.CodeExecutionFailed).
				WithOperation("cmdlang.RunScript").
				WithDetail("line", report.Lines)
			s.report(wrapped)
			s.machine.Reset()
			report.Duration = timer.StopWithError(wrapped)
			return report, wrapped
		}

		report.Lines++
		text := scanner.Text()
		if err := s.handle(ctx, text); err != nil {
			report.Failed = append(report.Failed, LineError{Line: report.Lines, Text: text, Err: err})
		}
		timer.Checkpoint("line", mdwlog.Fields{"line": report.Lines, "state": s.machine.State().String()})
	}
	if err := scanner.Err(); err != nil {
		wrapped := mdwerror.Wrap(err, "cannot read script").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmdlang.RunScript")
		s.report(wrapped)
		report.Duration = timer.StopWithError(wrapped)
		return report, wrapped
	}

	if s.machine.InsideIf() || s.machine.InsideFor() {
		s.presenter.AppendWarning("script ended inside an open IF or FOR block")
		s.machine.Reset()
	}

	timer.WithField("lines", report.Lines).WithField("failed", len(report.Failed))
	report.Duration = timer.Stop()
	return report, nil
}

// RunScriptFile runs the script stored at path
func (s *Session) RunScriptFile(ctx context.Context, path, args string) (*ScriptReport, error) {
	f, err := os.Open(path)
	if err != nil {
		wrapped := mdwerror.Wrap(err, "cannot open script").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("cmdlang.RunScriptFile").
			WithDetail("path", path)
		s.report(wrapped)
		return nil, wrapped
	}
	defer f.Close()
	return s.RunScript(ctx, f, args)
}
