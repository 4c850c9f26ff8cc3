package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether v is a file descriptor attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runLines is the session used when input or output is not a terminal.
// Each non-blank line is evaluated and its result written to out; a failed
// line writes "error: message" to errOut and the session goes on.
func runLines(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
	ev evaluator,
) error {
	scanner := bufio.NewScanner(in)

	var lineno int

	for scanner.Scan() {
		lineno++

		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ret, err := ev.eval(ctx, line)
		if err != nil {
			ev.logger.DebugContext(ctx, "repl line failed",
				slog.Int("line", lineno),
				slog.Any("error", err))

			fmt.Fprintf(errOut, "error: %v\n", err)

			continue
		}

		if err := ret.Format(ctx, out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return nil
}
