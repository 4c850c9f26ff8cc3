package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRun_LineMode(t *testing.T) {
	in := strings.NewReader("1 + 2\n\n  x + 1 - 2\n{}\n1 +\n(1, 2) * 2\n")

	var out, errOut bytes.Buffer

	err := Run(t.Context(), Config{In: in, Out: &out, Err: &errOut})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "3\n(x - 1)\n( 2 4 )\n"; out.String() != want {
		t.Errorf("expected output %q, got %q", want, out.String())
	}

	if lines := strings.Split(strings.TrimSpace(errOut.String()), "\n"); len(lines) != 1 ||
		!strings.HasPrefix(lines[0], "error: ") {
		t.Errorf("expected one error line, got %q", errOut.String())
	}
}

func TestRun_LineModeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var out bytes.Buffer

	err := Run(ctx, Config{In: strings.NewReader("1\n"), Out: &out, Err: &out})
	if err == nil {
		t.Error("expected cancellation error")
	}

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		current bool
		args    []string
		want    bool
		wantErr bool
	}{
		{false, nil, true, false},
		{true, nil, false, false},
		{false, []string{"on"}, true, false},
		{true, []string{"OFF"}, false, false},
		{false, []string{"true"}, true, false},
		{false, []string{"maybe"}, false, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := parseToggle(tt.current, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}

			if err == nil && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestModel_Evaluate(t *testing.T) {
	m := newModel(t.Context(), evaluator{}, NewHistory(""))

	tests := []struct {
		input string
		want  string
	}{
		{"2 ^ 10", "1024"},
		{"y - 1 + 1", "y"},
		{"{}", ""},
		{"(1", "error: "},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := m.evaluate(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}

			if tt.want == "" && got != "" {
				t.Errorf("expected nothing, got %q", got)
			}
		})
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := newModel(t.Context(), evaluator{}, NewHistory(""))

	m.input.SetValue("alpha + beta")
	m, _ = m.executeInput()

	if m.history.Len() != 1 || m.input.Value() != "" {
		t.Fatalf("expected input recorded and cleared, history=%d input=%q",
			m.history.Len(), m.input.Value())
	}

	if len(m.idents) != 2 {
		t.Errorf("expected identifiers from history, got %v", m.idents)
	}

	m.input.SetValue("al")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	m, _ = m.cycle(1)
	if m.input.Value() != "alpha" {
		t.Errorf("expected completion to alpha, got %q", m.input.Value())
	}
}

func TestModel_Commands(t *testing.T) {
	m := newModel(t.Context(), evaluator{}, NewHistory(""))

	m, _ = m.toggleMode()
	if m.mode != modeCtrl {
		t.Fatal("expected command mode")
	}

	m.input.SetValue("verify on")
	m, _ = m.executeInput()

	if !m.eval.verify {
		t.Error("expected verify to be enabled")
	}

	m.input.SetValue("quit")
	m, cmd := m.executeInput()

	if !m.quitting || cmd == nil {
		t.Error("expected quit")
	}

	m, _ = m.toggleMode()
	if m.mode != modeEval {
		t.Error("expected eval mode")
	}
}

func TestModel_History(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("1 + 1", modeEval)
	_ = h.Add("help", modeCtrl)
	_ = h.Add("2 + 2", modeEval)

	m := newModel(t.Context(), evaluator{}, h)

	m, _ = m.historyPrev()
	if m.input.Value() != "2 + 2" {
		t.Errorf("expected last entry, got %q", m.input.Value())
	}

	m, _ = m.historyPrev()
	if m.input.Value() != "help" || m.mode != modeCtrl {
		t.Errorf("expected command entry in command mode, got %q (mode %d)",
			m.input.Value(), m.mode)
	}

	m, _ = m.historyNext()
	m, _ = m.historyNext()

	if m.input.Value() != "" || m.historyIdx != h.Len() {
		t.Errorf("expected navigation to end, got %q at %d", m.input.Value(), m.historyIdx)
	}

	m, _ = m.switchToMode(modeEval)
	m, _ = m.historyInMode(-1)

	if m.input.Value() != "2 + 2" {
		t.Errorf("expected eval entry, got %q", m.input.Value())
	}

	if !strings.Contains(m.listHistory(), "1 + 1") {
		t.Errorf("expected history listing, got %q", m.listHistory())
	}
}

func TestModel_KeyQuit(t *testing.T) {
	m := newModel(t.Context(), evaluator{}, NewHistory(""))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if !next.(model).quitting || cmd == nil {
		t.Error("expected Ctrl+D on empty input to quit")
	}

	if next.View() != "" {
		t.Errorf("expected empty view after quit, got %q", next.View())
	}
}

func TestModel_KeyBindings(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("help", modeCtrl)
	_ = h.Add("1 + 1", modeEval)

	m := newModel(t.Context(), evaluator{}, h)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if got := next.(model); got.input.Value() != "help" || got.mode != modeCtrl {
		t.Errorf("expected command history in command mode, got %q (mode %d)",
			got.input.Value(), got.mode)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := next.(model); got.input.Value() != "1 + 1" || got.mode != modeEval {
		t.Errorf("expected last entry in eval mode, got %q (mode %d)",
			got.input.Value(), got.mode)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(model).mode != modeCtrl {
		t.Error("expected Esc to toggle command mode")
	}
}

func TestHelpMessage(t *testing.T) {
	help := helpMessage()

	for _, kb := range keys.bindings() {
		if !strings.Contains(help, kb.Help().Desc) {
			t.Errorf("expected %q in help", kb.Help().Desc)
		}
	}

	for _, cmd := range ctrlCommands {
		if !strings.Contains(help, cmd) {
			t.Errorf("expected command %q in help", cmd)
		}
	}
}
