// File: catalog.go
// Title: Catalog Executor
// Description: Executes commands declared in a registry catalog, either by
//              calling their in-process handler or by running their shell
//              template.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"text/template"

	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	mdwmapx "github.com/msto63/cmdscript/foundation/utils/mapx"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

// DefaultShell runs catalog templates
const DefaultShell = "/bin/sh"

// CatalogOptions configures a CatalogExecutor
type CatalogOptions struct {
	Logger *mdwlog.Logger
	Shell  string
	// Dir is the working directory of shell commands
	Dir string
}

// CatalogExecutor executes the commands of a catalog
type CatalogExecutor struct {
	catalog *registry.Catalog
	logger  *mdwlog.Logger
	shell   string
	dir     string
}

var _ Executor = (*CatalogExecutor)(nil)

// NewCatalogExecutor creates an executor for catalog
func NewCatalogExecutor(catalog *registry.Catalog, opts CatalogOptions) *CatalogExecutor {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}
	return &CatalogExecutor{
		catalog: catalog,
		logger:  opts.Logger.WithField("component", "cmdlang-catalog-executor"),
		shell:   opts.Shell,
		dir:     opts.Dir,
	}
}

// Execute runs the command asynchronously and reports through done
func (e *CatalogExecutor) Execute(ctx context.Context, req *Request, done Completion) {
	def, ok := e.catalog.Lookup(req.Namespace, req.Command)
	if !ok {
		done(nil, mdwerror.New("command '"+req.Namespace+" "+req.Command+"' is not in the catalog").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("executor.CatalogExecutor.Execute"))
		return
	}

	args := withDefaults(def, req.Arguments)
	switch {
	case def.Handler != nil:
		go func() {
			value, err := def.Handler(ctx, args)
			if err != nil {
				done(nil, err)
				return
			}
			done(ResultOf(value), nil)
		}()
	case mdwstringx.IsNotBlank(def.Run):
		go func() {
			done(e.runTemplate(ctx, req, def, args))
		}()
	default:
		done(nil, mdwerror.New("command '"+req.Namespace+" "+req.Command+"' has no implementation").
			WithCode(mdwerror.CodeExecutionFailed).
			WithOperation("executor.CatalogExecutor.Execute"))
	}
}

func withDefaults(def *registry.CommandDefinition, supplied map[string]string) map[string]string {
	defaults := make(map[string]string, len(def.Arguments))
	for _, arg := range def.Arguments {
		if arg.Default != "" {
			defaults[arg.Name] = arg.Default
		}
	}
	return mdwmapx.Merge(defaults, supplied)
}

var templateFuncs = template.FuncMap{
	"quote": shellQuote,
}

// shellQuote wraps s in single quotes for POSIX shells
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RenderCommand expands a run template with the given arguments. Missing
// arguments expand to the empty string.
func RenderCommand(name, run string, args map[string]string) (string, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=zero").Parse(run)
	if err != nil {
		return "", mdwerror.Wrap(err, "invalid run template").
			WithCode(mdwerror.CodeExecutionFailed).
			WithOperation("executor.RenderCommand").
			WithDetail("command", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, args); err != nil {
		return "", mdwerror.Wrap(err, "cannot render run template").
			WithCode(mdwerror.CodeExecutionFailed).
			WithOperation("executor.RenderCommand").
			WithDetail("command", name)
	}
	return buf.String(), nil
}

func (e *CatalogExecutor) runTemplate(ctx context.Context, req *Request, def *registry.CommandDefinition, args map[string]string) (*Result, error) {
	script, err := RenderCommand(req.Namespace+" "+req.Command, def.Run, args)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, e.shell, "-c", script)
	cmd.Dir = e.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("running shell command", mdwlog.Fields{
		"requestID": req.ID,
		"command":   req.Namespace + " " + req.Command,
	})
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		return nil, mdwerror.New("command '"+req.Namespace+" "+req.Command+"' failed: "+mdwstringx.Truncate(message, 200, "...")).
			WithCode(mdwerror.CodeExecutionFailed).
			WithOperation("executor.CatalogExecutor.Execute").
			WithCause(err)
	}
	return &Result{Text: strings.TrimRight(stdout.String(), "\r\n")}, nil
}
