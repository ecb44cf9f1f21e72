// File: lexer.go
// Title: Command Line Tokenizer
// Description: Converts a command line into word, quoted-string and '='
//              tokens and folds key=value pairs out of the command phrase.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-19 v0.2.0: Whitespace-delimited words, key=value folding

package lexer

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// TokenType is the kind of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenString
	TokenEquals
)

// String returns the name of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "WORD"
	case TokenString:
		return "STRING"
	case TokenEquals:
		return "EQUALS"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical token
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the line
}

// String returns a debug form of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}

// Lexer reads tokens from a single line
type Lexer struct {
	input    string
	position int  // current char
	readPos  int  // next char
	ch       byte // 0 at end of input
}

// NewLexer creates a lexer over input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token. An unterminated quoted string is an
// error.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	pos := l.position

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Position: pos}, nil
	case l.ch == '=':
		l.readChar()
		return Token{Type: TokenEquals, Value: "=", Position: pos}, nil
	case l.ch == '"':
		value, ok := l.readString()
		if !ok {
			return Token{}, mdwerror.New("unterminated quoted string").
				WithCode(mdwerror.CodeParseError).
				WithOperation("lexer.NextToken").
				WithDetail("position", pos)
		}
		return Token{Type: TokenString, Value: value, Position: pos}, nil
	default:
		return Token{Type: TokenWord, Value: l.readWord(), Position: pos}, nil
	}
}

// Tokens returns every token up to, but not including, EOF
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readWord() string {
	start := l.position
	for l.ch != 0 && !isSpace(l.ch) && l.ch != '"' && l.ch != '=' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a double-quoted string. Backslashes are literal.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // opening quote
	start := l.position
	for l.ch != '"' {
		if l.ch == 0 {
			return "", false
		}
		l.readChar()
	}
	value := l.input[start:l.position]
	l.readChar() // closing quote
	return value, true
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

// Result is a tokenized command line
type Result struct {
	// Words form the command phrase, in input order
	Words []string
	// Arguments maps each key to its raw value. A repeated key keeps the
	// last value.
	Arguments map[string]string
	// Keys lists argument keys in first-seen order
	Keys []string
}

// Phrase returns the words joined by single spaces
func (r *Result) Phrase() string {
	return strings.Join(r.Words, " ")
}

// Tokenize splits line into its command phrase and arguments. A dangling
// '=' or an unterminated quote is a PARSE_ERROR.
func Tokenize(line string) (*Result, error) {
	tokens, err := NewLexer(line).Tokens()
	if err != nil {
		return &Result{Arguments: map[string]string{}}, err
	}

	result := &Result{Arguments: make(map[string]string)}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != TokenEquals {
			result.Words = append(result.Words, tok.Value)
			continue
		}

		if len(result.Words) == 0 {
			return &Result{Arguments: map[string]string{}}, parseError("'=' without a preceding argument name", tok.Position)
		}
		if i+1 >= len(tokens) || tokens[i+1].Type == TokenEquals {
			return &Result{Arguments: map[string]string{}}, parseError("'=' without a value", tok.Position)
		}

		key := result.Words[len(result.Words)-1]
		result.Words = result.Words[:len(result.Words)-1]
		if _, seen := result.Arguments[key]; !seen {
			result.Keys = append(result.Keys, key)
		}
		i++
		result.Arguments[key] = tokens[i].Value
	}
	return result, nil
}

// Parse is Tokenize for callers that treat a malformed line as an empty
// command
func Parse(line string) *Result {
	result, err := Tokenize(line)
	if err != nil {
		return &Result{Arguments: map[string]string{}}
	}
	return result
}

func parseError(message string, position int) error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeParseError).
		WithOperation("lexer.Tokenize").
		WithDetail("position", position)
}
