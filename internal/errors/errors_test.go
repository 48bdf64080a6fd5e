package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("storage not initialized"), "Run 'greenie init' first."),
			expected: "Error: storage not initialized\n       Run 'greenie init' first.",
		},
		{
			name:     "wrapped hinted error",
			err:      fmt.Errorf("load failed: %w", WithHint(errors.New("no user"), "Run 'greenie signup'.")),
			expected: "Error: load failed: no user\n       Run 'greenie signup'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("invalid quantity %v", -2)
	if got != "Error: invalid quantity -2" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestWithHint(t *testing.T) {
	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should be nil")
	}

	base := errors.New("base")
	err := WithHint(base, "try again")
	if !errors.Is(err, base) {
		t.Error("hinted error should unwrap to base")
	}
	if Hint(err) != "try again" {
		t.Errorf("Hint() = %q", Hint(err))
	}
	if Hint(base) != "" {
		t.Error("plain errors carry no hint")
	}
}
