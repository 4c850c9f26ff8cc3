package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/vac/lang"
)

// Eval evaluates one expression given on the command line.
type Eval struct {
	Output Output `default:"native" enum:"native,json,yaml" help:"Result format (${enum})." short:"o"`
	Verify bool   `                                        help:"Cross-check resolved results."`

	Expr []string `arg:"" help:"Expression to evaluate; arguments are joined by spaces." name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return evalLine(ctx, strings.Join(e.Expr, " "), e.Output, e.Verify)
}

// evalLine evaluates text and writes a non-empty result to stdout.
func evalLine(ctx context.Context, text string, out Output, verify bool) error {
	ret, err := runLine(ctx, text, verify)
	if err != nil {
		return err
	}

	err = out.write(ctx, stdout(ctx), ret)
	if err != nil {
		return ErrWriteOutput.
			With(slog.String("format", string(out))).
			Wrap(err)
	}

	return nil
}

// runLine runs text through the evaluator with the command's options.
func runLine(ctx context.Context, text string, verify bool) (lang.Return, error) {
	return lang.Run(ctx, text, evalOptions(verify)...)
}
