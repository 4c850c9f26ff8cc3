package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vac/lang"
	"github.com/ardnew/vac/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer kong was configured with, or os.Stderr.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// vars returns the kong interpolation variables, or nil outside of kong.
func vars(ctx context.Context) kong.Vars {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()
	}

	return nil
}

// Output selects how evaluation results are written.
type Output string

const (
	OutputNative Output = "native"
	OutputJSON   Output = "json"
	OutputYAML   Output = "yaml"
)

// defaultIndent is the indent width of structured output.
const defaultIndent = 2

// write formats ret to w in the selected output.
func (o Output) write(ctx context.Context, w io.Writer, ret lang.Return) error {
	switch o {
	case OutputJSON:
		return ret.FormatJSON(ctx, w, defaultIndent)
	case OutputYAML:
		return ret.FormatYAML(ctx, w, defaultIndent)
	default:
		return ret.Format(ctx, w)
	}
}

// evalOptions returns the [lang.Option] set shared by every evaluating
// command.
func evalOptions(verify bool) []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithVerify(verify),
	}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one input opened for reading.
type source struct {
	io.ReadCloser

	name string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens every path once, in order. Paths naming the same file
// through symlinks or relative spellings are opened only the first time.
// All occurrences of "-" (and any path resolving to stdin) collapse into a
// single stdin source kept at the position of its first occurrence.
func openSources(paths []string) ([]source, error) {
	srcs := make([]source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			if _, dup := seen[stdinKey]; dup {
				continue
			}

			seen[stdinKey] = struct{}{}
			srcs = append(srcs, source{io.NopCloser(os.Stdin), stdinSource})

			continue
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeSources(srcs)

			return nil, ErrOpenScript.Wrap(err)
		}

		if ok {
			srcs = append(srcs, source{file, path})
		}
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate returns false with a nil error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (io.ReadCloser, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
