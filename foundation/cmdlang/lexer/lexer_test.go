// File: lexer_test.go
// Title: Command Line Tokenizer Tests
// Description: Table-driven tests for token boundaries, quoting, key=value
//              folding and malformed input.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test suite
// - 2026-10-19 v0.2.0: Tests for key=value folding

package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

func TestLexer_NextToken(t *testing.T) {
	input := `load file="a b.sif"  x=1`
	expected := []Token{
		{Type: TokenWord, Value: "load", Position: 0},
		{Type: TokenWord, Value: "file", Position: 5},
		{Type: TokenEquals, Value: "=", Position: 9},
		{Type: TokenString, Value: "a b.sif", Position: 10},
		{Type: TokenWord, Value: "x", Position: 21},
		{Type: TokenEquals, Value: "=", Position: 22},
		{Type: TokenWord, Value: "1", Position: 23},
	}

	tokens, err := NewLexer(input).Tokens()
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}
	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantWords []string
		wantArgs  map[string]string
		wantKeys  []string
	}{
		{
			name:      "plain phrase",
			input:     "network   load  file",
			wantWords: []string{"network", "load", "file"},
			wantArgs:  map[string]string{},
		},
		{
			name:      "word characters",
			input:     "table get node:column /tmp/a_b-c.txt 3.14",
			wantWords: []string{"table", "get", "node:column", "/tmp/a_b-c.txt", "3.14"},
			wantArgs:  map[string]string{},
		},
		{
			name:      "key value pairs",
			input:     `network load file="my network.sif" verbose=true`,
			wantWords: []string{"network", "load"},
			wantArgs:  map[string]string{"file": "my network.sif", "verbose": "true"},
			wantKeys:  []string{"file", "verbose"},
		},
		{
			name:      "spaces around equals",
			input:     "layout apply name = grid",
			wantWords: []string{"layout", "apply"},
			wantArgs:  map[string]string{"name": "grid"},
			wantKeys:  []string{"name"},
		},
		{
			name:      "quoted key and repeated key",
			input:     `set "a key"=1 x=2 x=3`,
			wantWords: []string{"set"},
			wantArgs:  map[string]string{"a key": "1", "x": "3"},
			wantKeys:  []string{"a key", "x"},
		},
		{
			name:      "quoted word in phrase",
			input:     `echo "hello world"`,
			wantWords: []string{"echo", "hello world"},
			wantArgs:  map[string]string{},
		},
		{
			name:      "backslashes are literal",
			input:     `open path="C:\data\net.sif"`,
			wantWords: []string{"open"},
			wantArgs:  map[string]string{"path": `C:\data\net.sif`},
			wantKeys:  []string{"path"},
		},
		{
			name:     "empty line",
			input:    "   ",
			wantArgs: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.wantWords, result.Words, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Words mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, result.Arguments); diff != "" {
				t.Errorf("Arguments mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantKeys, result.Keys, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeMalformed(t *testing.T) {
	for _, input := range []string{
		`load file="unterminated`,
		`=value`,
		`load file=`,
		`load file==x`,
	} {
		result, err := Tokenize(input)
		if !mdwerror.HasCode(err, mdwerror.CodeParseError) {
			t.Errorf("Tokenize(%q) error = %v, want PARSE_ERROR", input, err)
		}
		if result.Phrase() != "" {
			t.Errorf("Tokenize(%q) phrase = %q, want empty", input, result.Phrase())
		}
		if Parse(input).Phrase() != "" {
			t.Errorf("Parse(%q) should degrade to an empty phrase", input)
		}
	}
}

func TestPhrase(t *testing.T) {
	result := Parse("  node   list  selected=true ")
	if got := result.Phrase(); got != "node list" {
		t.Errorf("Phrase() = %q, want %q", got, "node list")
	}
}
