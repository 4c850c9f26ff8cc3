package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ardnew/vac/cli/cmd/repl"
	"github.com/ardnew/vac/log"
)

// Repl starts the interactive shell.
type Repl struct {
	Verify    bool `help:"Cross-check resolved results."`
	NoHistory bool `help:"Do not persist input history."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var history string

	if dir, ok := vars(ctx)[CacheIdentifier]; ok && dir != "" && !r.NoHistory {
		history = filepath.Join(dir, repl.BaseHistory)
	}

	return repl.Run(ctx, repl.Config{
		In:      os.Stdin,
		Out:     stdout(ctx),
		Err:     stderr(ctx),
		History: history,
		Logger:  log.Default(),
		Verify:  r.Verify,
	})
}
