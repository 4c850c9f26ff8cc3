package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func mustRun(t *testing.T, input string) Return {
	t.Helper()

	ret, err := Run(t.Context(), input)
	if err != nil {
		t.Fatalf("run %q: %v", input, err)
	}

	return ret
}

func TestReturn_Format(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "3\n"},
		{"x + 1 - 2", "(x - 1)\n"},
		{"{}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var buf bytes.Buffer

			if err := mustRun(t, tt.input).Format(t.Context(), &buf); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestReturn_FormatJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		check  func(t *testing.T, m map[string]any)
	}{
		{
			name:  "vector value",
			input: "(1, 2.5)",
			check: func(t *testing.T, m map[string]any) {
				t.Helper()

				if m["result"] != "value" || m["type"] != "vector of number" {
					t.Errorf("unexpected header: %v", m)
				}

				vals, ok := m["value"].([]any)
				if !ok || len(vals) != 2 || vals[0] != 1.0 || vals[1] != 2.5 {
					t.Errorf("unexpected value: %v", m["value"])
				}
			},
		},
		{
			name:   "infinite value",
			input:  "1 / 0",
			indent: 2,
			check: func(t *testing.T, m map[string]any) {
				t.Helper()

				if m["value"] != "inf" {
					t.Errorf("expected inf, got %v", m["value"])
				}
			},
		},
		{
			name:  "expression",
			input: "x * 2",
			check: func(t *testing.T, m map[string]any) {
				t.Helper()

				if m["result"] != "expression" || m["expression"] != "(x * 2)" {
					t.Errorf("unexpected header: %v", m)
				}

				tree, ok := m["tree"].(map[string]any)
				if !ok || tree["node"] != "binary operation" || tree["op"] != "*" {
					t.Errorf("unexpected tree: %v", m["tree"])
				}
			},
		},
		{
			name:  "nothing",
			input: "{}",
			check: func(t *testing.T, m map[string]any) {
				t.Helper()

				if m["result"] != "nothing" || len(m) != 1 {
					t.Errorf("unexpected result: %v", m)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := mustRun(t, tt.input).FormatJSON(t.Context(), &buf, tt.indent)
			if err != nil {
				t.Fatalf("format error: %v", err)
			}

			var m map[string]any
			if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}

			tt.check(t, m)
		})
	}
}

func TestReturn_FormatYAML(t *testing.T) {
	var buf bytes.Buffer

	if err := mustRun(t, "x + 1").FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := buf.String()

	for _, want := range []string{"result: expression", "node: binary operation", "name: x"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected YAML to contain %q:\n%s", want, out)
		}
	}

	buf.Reset()

	if err := mustRun(t, "3").FormatYAML(t.Context(), &buf, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected flow style without indent, got %q", buf.String())
	}
}

func TestFormatExpr(t *testing.T) {
	e := mustParse(t, "-|x| + {1, y}")

	var buf bytes.Buffer

	if err := FormatExpr(t.Context(), &buf, e); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got, want := buf.String(), "((- | x |) + { 1 y })\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	buf.Reset()

	if err := FormatExprJSON(t.Context(), &buf, e, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	right, ok := m["right"].(map[string]any)
	if !ok || right["node"] != "set" {
		t.Fatalf("unexpected right operand: %v", m["right"])
	}

	elems, ok := right["elems"].([]any)
	if !ok || len(elems) != 2 {
		t.Errorf("unexpected set elements: %v", right["elems"])
	}

	buf.Reset()

	if err := FormatExprYAML(t.Context(), &buf, e, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if !strings.Contains(buf.String(), "node: absolute expression") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}
}

func TestFormatTokens(t *testing.T) {
	tokens, err := Lex("a + 1.5")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	var buf bytes.Buffer

	if err := FormatTokens(t.Context(), &buf, tokens); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "1:1\tidentifier\ta\n1:3\tadd\t+\n1:5\tfloat\t1.5\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
