package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_Message(t *testing.T) {
	pos := Position{Offset: 3, Line: 1, Column: 4}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrLex, "lex error"},
		{"wrapped", ErrLex.Wrap(errors.New("boom")), "lex error: boom"},
		{"positioned", ErrLex.WithPosition(pos), "lex error at 1:4"},
		{"positioned and wrapped", ErrLex.WithPosition(pos).Wrap(errors.New("boom")), "lex error at 1:4: boom"},
		{"bare wrap", WrapError(errors.New("io")), "io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("context: %w", ErrTypeMismatch.Wrap(errors.New("detail")))

	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("expected wrapped error to match its sentinel")
	}

	if errors.Is(err, ErrDomain) {
		t.Error("expected no match for a different sentinel")
	}

	cause := errors.New("cause")
	if !errors.Is(ErrDomain.Wrap(cause), cause) {
		t.Error("expected the cause to be reachable")
	}

	if errors.Is(ErrDomain, ErrDomain.Wrap(cause)) {
		t.Error("a derived error must not match as a target")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrUnexpectedToken.
		WithPosition(Position{Line: 2, Column: 5}).
		With(slog.String("token", ")")).
		Wrap(errors.New("')'"))

	attrs := err.LogValue().Group()

	want := map[string]string{
		"error":    "unexpected token",
		"position": "2:5",
		"cause":    "')'",
		"token":    ")",
	}

	if len(attrs) != len(want) {
		t.Fatalf("expected %d attrs, got %d: %v", len(want), len(attrs), attrs)
	}

	for _, a := range attrs {
		if want[a.Key] != a.Value.String() {
			t.Errorf("attr %s: expected %q, got %q", a.Key, want[a.Key], a.Value.String())
		}
	}
}

func TestWrapError_Preserves(t *testing.T) {
	orig := ErrDomain.With(slog.Int("n", 1))

	if got := WrapError(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Errorf("expected the inner *Error to be returned, got %v", got)
	}
}
