// File: presenter.go
// Title: Output Presenter
// Description: Sink for every user-visible line a session produces, with
//              an in-memory buffer and a function adapter.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package presenter receives the output of a session. The engine never
// renders text itself; it appends typed entries to a Presenter.
package presenter

import (
	"strings"
	"sync"
)

// Kind classifies an output entry
type Kind int

const (
	KindMessage Kind = iota
	KindError
	KindWarning
	KindCommand
	KindResult
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindCommand:
		return "command"
	case KindResult:
		return "result"
	default:
		return "message"
	}
}

// Entry is one presented line
type Entry struct {
	Kind Kind
	Text string
}

// Presenter receives session output
type Presenter interface {
	AppendMessage(text string)
	AppendError(text string)
	AppendWarning(text string)
	AppendCommand(text string)
	AppendResult(text string)
}

// Func adapts a function receiving entries to Presenter
type Func func(entry Entry)

func (f Func) AppendMessage(text string) { f(Entry{KindMessage, text}) }
func (f Func) AppendError(text string) { f(Entry{KindError, text}) }
func (f Func) AppendWarning(text string) { f(Entry{KindWarning, text}) }
func (f Func) AppendCommand(text string) { f(Entry{KindCommand, text}) }
func (f Func) AppendResult(text string) { f(Entry{KindResult, text}) }

// Buffer records entries in memory. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Presenter = (*Buffer)(nil)

// NewBuffer creates an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) add(kind Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{Kind: kind, Text: text})
}

func (b *Buffer) AppendMessage(text string) { b.add(KindMessage, text) }
func (b *Buffer) AppendError(text string) { b.add(KindError, text) }
func (b *Buffer) AppendWarning(text string) { b.add(KindWarning, text) }
func (b *Buffer) AppendCommand(text string) { b.add(KindCommand, text) }
func (b *Buffer) AppendResult(text string) { b.add(KindResult, text) }

// Entries returns a copy of all entries
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Texts returns the text of every entry of the given kind
func (b *Buffer) Texts(kind Kind) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var texts []string
	for _, e := range b.entries {
		if e.Kind == kind {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

// Reset drops all entries
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// String renders the buffer as plain text, one entry per line
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, e := range b.Entries() {
		sb.WriteString(Plain(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}
