package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
	"github.com/klauspost/readahead"

	"github.com/ardnew/vac/log"
)

// SearchPathEnv names the environment variable listing directories
// searched for scripts given by bare name.
const SearchPathEnv = "VACPATH"

// Run evaluates every non-blank line of one or more script files.
type Run struct {
	Output Output `default:"native" enum:"native,json,yaml" help:"Result format (${enum})." short:"o"`
	Verify bool   `                                        help:"Cross-check resolved results."`

	Files []string `arg:"" default:"-" help:"Script files or '-' for stdin." name:"file" optional:""`
}

// Run executes the run command.
//
// A line that fails is reported on stderr as "line N: message", prefixed
// by the file name when more than one script runs, and execution continues
// with the next line.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	paths := make([]string, 0, len(r.Files))

	for _, name := range r.Files {
		path, err := searchScript(name, scriptDirs(ctx))
		if err != nil {
			return err
		}

		paths = append(paths, path)
	}

	srcs, err := openSources(paths)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	var failed int

	for _, src := range srcs {
		n, err := r.exec(ctx, src, len(srcs) > 1)
		if err != nil {
			return err
		}

		failed += n
	}

	if failed > 0 {
		return ErrScriptFailed.With(slog.Int("errors", failed))
	}

	return nil
}

// exec evaluates each line of src and returns the number of failed lines.
func (r *Run) exec(ctx context.Context, src source, named bool) (int, error) {
	ra := readahead.NewReader(src)
	defer ra.Close()

	var (
		prefix string
		failed int
		lineno int
	)

	if named {
		prefix = src.name + ": "
	}

	scanner := bufio.NewScanner(ra)

	for scanner.Scan() {
		lineno++

		if err := ctx.Err(); err != nil {
			return failed, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		err := evalLine(ctx, text, r.Output, r.Verify)
		if err != nil {
			failed++

			log.DebugContext(ctx, "script line failed",
				slog.String("script", src.name),
				slog.Int("line", lineno),
				slog.Any("error", err))

			fmt.Fprintf(stderr(ctx), "%sline %d: %v\n", prefix, lineno, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return failed, ErrReadScript.
			With(slog.String("script", src.name)).
			Wrap(err)
	}

	return failed, nil
}

// scriptDirs returns the directories searched for scripts: the scripts
// directory under the configuration directory followed by the entries of
// $VACPATH.
func scriptDirs(ctx context.Context) []string {
	var prefix []string

	if dir, ok := vars(ctx)[ScriptsIdentifier]; ok && dir != "" {
		prefix = append(prefix, dir)
	}

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(SearchPathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()

	return filepath.SplitList(list)
}

// searchScript resolves name to a readable path. Paths that exist, "-",
// and names containing a separator are used as given; bare names are
// looked up in dirs in order.
func searchScript(name string, dirs []string) (string, error) {
	if name == stdinSource || strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}

		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", ErrOpenScript.With(slog.String("script", path)).Wrap(err)
		}
	}

	return "", ErrScriptNotFound.
		With(slog.String("script", name)).
		Wrap(fmt.Errorf("%s: %w", name, fs.ErrNotExist))
}
