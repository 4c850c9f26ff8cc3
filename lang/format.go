package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes r to the writer the way an interactive shell echoes it:
// the bare value or expression followed by a newline. An empty result
// writes nothing.
func (r Return) Format(_ context.Context, w io.Writer) error {
	if r.Kind() == ReturnNone {
		return nil
	}

	_, err := fmt.Fprintln(w, r.Display())

	return err
}

// FormatJSON writes r as JSON to the writer.
func (r Return) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, r.ToMap(), indent)
}

// FormatYAML writes r as YAML to the writer.
func (r Return) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, r.ToMap(), indent)
}

// FormatExpr writes e fully parenthesized, followed by a newline.
func FormatExpr(_ context.Context, w io.Writer, e Expr) error {
	_, err := fmt.Fprintln(w, e.String())

	return err
}

// FormatExprJSON writes the tree of e as JSON to the writer.
func FormatExprJSON(_ context.Context, w io.Writer, e Expr, indent int) error {
	return writeJSON(w, ExprToMap(e), indent)
}

// FormatExprYAML writes the tree of e as YAML to the writer.
func FormatExprYAML(ctx context.Context, w io.Writer, e Expr, indent int) error {
	return writeYAML(ctx, w, ExprToMap(e), indent)
}

// FormatTokens writes one token per line as "line:col kind text".
func FormatTokens(_ context.Context, w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", t.Pos, t.Kind, t)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
