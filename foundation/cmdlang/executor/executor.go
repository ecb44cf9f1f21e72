// File: executor.go
// Title: Executor Collaborator
// Description: Request and result types exchanged with the component that
//              actually performs a command.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Service client interface
// - 2026-10-19 v0.2.0: Callback-based executor for namespaced commands

package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Request is a validated command ready for execution. Argument keys are
// canonical argument names.
type Request struct {
	ID        string
	SessionID string
	Namespace string
	Command   string
	Arguments map[string]string
}

// Result is the single result of a command. Data is rendered as JSON
// when Text is empty.
type Result struct {
	Text string
	Data interface{}

	RequestID string
	Namespace string
	Command   string
	Duration  time.Duration
}

// String returns the textual form of the result
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	if r.Text != "" || r.Data == nil {
		return r.Text
	}
	if s, ok := r.Data.(string); ok {
		return s
	}
	encoded, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Sprint(r.Data)
	}
	return string(encoded)
}

// Completion receives the outcome of an execution. Calls after the first
// are ignored.
type Completion func(result *Result, err error)

// Executor performs commands. Execute may return before the work is done
// but must eventually call done.
type Executor interface {
	Execute(ctx context.Context, req *Request, done Completion)
}

// ExecutorFunc adapts a synchronous function to Executor
type ExecutorFunc func(ctx context.Context, req *Request) (*Result, error)

// Execute calls f and reports its outcome
func (f ExecutorFunc) Execute(ctx context.Context, req *Request, done Completion) {
	done(f(ctx, req))
}

// ResultOf wraps a handler return value
func ResultOf(value interface{}) *Result {
	switch v := value.(type) {
	case nil:
		return &Result{}
	case *Result:
		return v
	case string:
		return &Result{Text: v}
	case fmt.Stringer:
		return &Result{Text: v.String()}
	default:
		return &Result{Data: v}
	}
}
