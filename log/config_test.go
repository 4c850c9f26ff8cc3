package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", Level(-2)},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevel_Names(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	for _, name := range got {
		if ParseLevel(name).String() != name {
			t.Errorf("level %q does not round-trip", name)
		}
	}

	if got := Level(-2).label(); got != "DEBUG+2" {
		t.Errorf("expected slog label for unnamed level, got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" text\n", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("unexpected formats %v", got)
	}
}

func TestOptions(t *testing.T) {
	c := apply(config{},
		WithDefaults(nil),
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.output == nil {
		t.Error("expected a nil writer to be replaced")
	}

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c = WithOutput(nil)(c); c.output == nil {
		t.Error("expected WithOutput(nil) to discard")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc-3339", "2024-03-05T14:07:09Z"},
		{"Kitchen", "2:07PM"},
		{"DateTime", "2024-03-05 14:07:09"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
