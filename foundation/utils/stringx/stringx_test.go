package stringx

import (
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := map[string]bool{
		"":        true,
		"   \t\n": true,
		" x ":     false,
	}
	for input, want := range tests {
		if got := IsBlank(input); got != want {
			t.Errorf("IsBlank(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"äöüäöü", 4, "ä..."},
		{"hello", 2, ".."},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.max, "..."); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight should not cut: %q", got)
	}
}

func TestInferValue(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{"true", true},
		{"false", false},
		{"42", 42},
		{"-3", -3},
		{"2.5", 2.5},
		{"file.sif", "file.sif"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := InferValue(tt.input); got != tt.want {
			t.Errorf("InferValue(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}
