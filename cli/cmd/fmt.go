package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/vac/lang"
	"github.com/ardnew/vac/log"
)

// Fmt prints how an expression parses without evaluating it.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print the fully parenthesized expression (default)."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"Print the token sequence."`
}

// parseArgs parses the joined arguments, tagging failures with the format.
func parseArgs(ctx context.Context, args []string, format string) (lang.Expr, error) {
	e, err := lang.ParseString(ctx, strings.Join(args, " "), lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("format", format))
	}

	log.DebugContext(ctx, "formatting expression",
		slog.String("format", format),
		slog.String("kind", e.Kind()),
		slog.Int("node_count", lang.Count(e)))

	return e, nil
}

// Native prints an expression fully parenthesized.
type Native struct {
	Expr []string `arg:"" help:"Expression to format; arguments are joined by spaces." name:"expr"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := parseArgs(ctx, f.Expr, "native")
	if err != nil {
		return err
	}

	return lang.FormatExpr(ctx, stdout(ctx), e)
}

// JSON prints an expression tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Expr []string `arg:"" help:"Expression to format; arguments are joined by spaces." name:"expr"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := parseArgs(ctx, j.Expr, "json")
	if err != nil {
		return err
	}

	return lang.FormatExprJSON(ctx, stdout(ctx), e, j.Indent)
}

// YAML prints an expression tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Expr []string `arg:"" help:"Expression to format; arguments are joined by spaces." name:"expr"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := parseArgs(ctx, y.Expr, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatExprYAML(ctx, stdout(ctx), e, y.Indent)
}

// Tokens prints the lexed tokens of an expression, one per line.
type Tokens struct {
	Expr []string `arg:"" help:"Expression to format; arguments are joined by spaces." name:"expr"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tokens, err := lang.LexContext(ctx, strings.Join(t.Expr, " "), lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "tokens"))
	}

	return lang.FormatTokens(ctx, stdout(ctx), tokens)
}
