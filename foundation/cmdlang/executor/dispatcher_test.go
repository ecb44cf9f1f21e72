// File: dispatcher_test.go
// Title: Command Dispatcher Unit Tests
// Description: Tests abbreviation resolution of namespaces, commands and
//              arguments, required argument checks, executor completion
//              handling and timeouts using a mock executor.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial executor test suite
// - 2026-10-19 v0.2.0: Dispatcher tests

package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// Mock implementations for testing

type MockExecutor struct {
	mu          sync.Mutex
	results     map[string]*Result
	errors      map[string]error
	callHistory []MockCall
	// block keeps the completion pending until ctx is done
	block bool
}

type MockCall struct {
	Namespace string
	Command   string
	Arguments map[string]string
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		results: make(map[string]*Result),
		errors:  make(map[string]error),
	}
}

func (m *MockExecutor) Execute(ctx context.Context, req *Request, done Completion) {
	m.mu.Lock()
	m.callHistory = append(m.callHistory, MockCall{
		Namespace: req.Namespace,
		Command:   req.Command,
		Arguments: req.Arguments,
	})
	key := req.Namespace + " " + req.Command
	result, err, block := m.results[key], m.errors[key], m.block
	m.mu.Unlock()

	if block {
		go func() {
			<-ctx.Done()
			// a late completion must not disturb the dispatcher
			time.Sleep(10 * time.Millisecond)
			done(&Result{Text: "late"}, nil)
		}()
		return
	}
	go func() {
		if err != nil {
			done(nil, err)
			return
		}
		done(result, nil)
		done(&Result{Text: "second completion"}, nil)
	}()
}

func (m *MockExecutor) calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.callHistory...)
}

func newTestRegistry(t *testing.T) *registry.Catalog {
	t.Helper()
	c := registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()})
	namespaces := []*registry.NamespaceDefinition{
		{
			Name: "network",
			Commands: []*registry.CommandDefinition{
				{Name: "load file", Arguments: []*registry.ArgumentDefinition{
					{Name: "file", Required: true},
					{Name: "firstRowAsColumnNames", Type: "boolean"},
					{Name: "indexColumn", Type: "integer"},
				}},
				{Name: "load url", Arguments: []*registry.ArgumentDefinition{
					{Name: "url", Required: true},
				}},
				{Name: "list"},
			},
		},
		{Name: "node", Commands: []*registry.CommandDefinition{{Name: "list"}, {Name: "link"}}},
		{Name: "layout", Commands: []*registry.CommandDefinition{{Name: "apply preferred"}}},
	}
	for _, ns := range namespaces {
		if err := c.Register(ns); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	return c
}

func newTestDispatcher(t *testing.T, exec Executor, timeout time.Duration) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Options{
		Logger:         mdwlog.Discard(),
		Registry:       newTestRegistry(t),
		Executor:       exec,
		Timeout:        timeout,
		SessionID:      "test-session",
		EnableAuditLog: true,
	})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func TestNewDispatcher_RequiresCollaborators(t *testing.T) {
	if _, err := NewDispatcher(Options{Executor: NewMockExecutor()}); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("missing registry error = %v", err)
	}
	if _, err := NewDispatcher(Options{Registry: newTestRegistry(t)}); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("missing executor error = %v", err)
	}
}

func TestDispatchLine_ResolvesAbbreviations(t *testing.T) {
	mock := NewMockExecutor()
	mock.results["network load file"] = &Result{Text: "loaded"}
	d := newTestDispatcher(t, mock, 0)

	result, err := d.DispatchLine(context.Background(), `netw lo f file="a b.sif" first=true`)
	if err != nil {
		t.Fatalf("DispatchLine() error = %v", err)
	}
	if result.String() != "loaded" {
		t.Errorf("result = %q, want loaded", result.String())
	}
	if result.Namespace != "network" || result.Command != "load file" || result.RequestID == "" {
		t.Errorf("result metadata = %+v", result)
	}

	want := []MockCall{{
		Namespace: "network",
		Command:   "load file",
		Arguments: map[string]string{"file": "a b.sif", "firstRowAsColumnNames": "true"},
	}}
	if diff := cmp.Diff(want, mock.calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantCode mdwerror.Code
		wantMsg  string
	}{
		{"unknown namespace", "foo list", mdwerror.CodeUnresolvedSymbol, "namespace 'foo' not found"},
		{"ambiguous namespace", "n list", mdwerror.CodeUnresolvedSymbol, "namespace 'n' not unique"},
		{"unknown command", "network destroy", mdwerror.CodeUnresolvedSymbol, "failed to find command 'destroy' (namespace: network)"},
		{"second word unknown", "network load x", mdwerror.CodeUnresolvedSymbol, "failed to find command 'load x' (namespace: network) (did you mean: load url?)"},
		{"ambiguous command", "node l", mdwerror.CodeUnresolvedSymbol, "command 'l' is not unique (namespace: node)"},
		{"argument not applicable", "network load file file=a color=red", mdwerror.CodeUnresolvedSymbol,
			"argument 'color' isn't applicable to command: 'network load file'"},
		{"missing required", "network load file first=true", mdwerror.CodeMissingRequiredArgument,
			"missing required argument 'file' for command: 'network load file'"},
		{"invalid typed value", "network load file file=a indexColumn=x", mdwerror.CodeInvalidInput, ""},
		{"duplicate argument", "network load file file=a fil=b", mdwerror.CodeInvalidInput, ""},
		{"malformed line", `network load file file="unterminated`, mdwerror.CodeUnresolvedSymbol, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockExecutor()
			d := newTestDispatcher(t, mock, 0)

			_, err := d.DispatchLine(context.Background(), tt.line)
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if calls := mock.calls(); len(calls) != 0 {
				t.Errorf("executor called %d times, want 0", len(calls))
			}
		})
	}
}

func TestDispatch_WordCountMustMatch(t *testing.T) {
	d := newTestDispatcher(t, NewMockExecutor(), 0)

	// "load" has one word, both load commands have two
	_, err := d.Dispatch(context.Background(), "network", "load", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "failed to find command 'load' (namespace: network) (did you mean: load url, load file?)" {
		t.Errorf("message = %q", err.Error())
	}

	_, err = d.Dispatch(context.Background(), "network", "lo fi", map[string]string{"file": "x"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
}

func TestDispatch_UnresolvedSuggestions(t *testing.T) {
	d := newTestDispatcher(t, NewMockExecutor(), 0)

	_, err := d.Dispatch(context.Background(), "network", "lst", nil)
	mdwErr, ok := mdwerror.As(err)
	if !ok {
		t.Fatalf("error = %v, want *mdwerror.Error", err)
	}
	reason, _ := mdwErr.Detail("reason")
	if reason != "not found" {
		t.Errorf("reason = %v", reason)
	}
	suggestions, _ := mdwErr.Detail("suggestions")
	if diff := cmp.Diff([]string{"list"}, suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_ExecutorError(t *testing.T) {
	mock := NewMockExecutor()
	mock.errors["node list"] = errors.New("backend down")
	d := newTestDispatcher(t, mock, 0)

	_, err := d.DispatchLine(context.Background(), "node list")
	if !mdwerror.HasCode(err, mdwerror.CodeExecutionFailed) {
		t.Fatalf("error = %v, want EXECUTION_FAILED", err)
	}
	if err.Error() != "command 'node list' failed: backend down" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDispatch_Timeout(t *testing.T) {
	mock := NewMockExecutor()
	mock.block = true
	d := newTestDispatcher(t, mock, 20*time.Millisecond)

	_, err := d.DispatchLine(context.Background(), "node list")
	if !mdwerror.HasCode(err, mdwerror.CodeTimeout) {
		t.Fatalf("error = %v, want TIMEOUT", err)
	}
}

func TestDispatch_Cancelled(t *testing.T) {
	mock := NewMockExecutor()
	mock.block = true
	d := newTestDispatcher(t, mock, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.DispatchLine(ctx, "node list")
	if !mdwerror.HasCode(err, mdwerror.CodeExecutionFailed) {
		t.Fatalf("error = %v, want EXECUTION_FAILED", err)
	}
}

func TestDispatch_SingleFlight(t *testing.T) {
	var mu sync.Mutex
	active, maxActive := 0, 0
	exec := ExecutorFunc(func(ctx context.Context, req *Request) (*Result, error) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return &Result{Text: "ok"}, nil
	})
	d := newTestDispatcher(t, exec, 0)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.DispatchLine(context.Background(), "node list"); err != nil {
				t.Errorf("DispatchLine() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if maxActive != 1 {
		t.Errorf("max concurrent executions = %d, want 1", maxActive)
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{"nil", nil, ""},
		{"text", &Result{Text: "42"}, "42"},
		{"json", &Result{Data: map[string]int{"nodes": 3}}, `{"nodes":3}`},
		{"string data", ResultOf("x"), "x"},
		{"empty", ResultOf(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
