package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/vac/pkg"
)

const (
	// baseConfig is the base name, without extension, of the configuration
	// files.
	baseConfig = "config"

	// baseScripts is the name of the scripts directory searched by run.
	baseScripts = "scripts"
)

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the paths of
// the configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with vac
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//   - "*.test" (test binaries): replaced with vac
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)

		// Test binaries use the package name.
		if strings.HasSuffix(strings.TrimSuffix(id, ".exe"), ".test") {
			return pkg.Name
		}

		id = strings.TrimSuffix(id, filepath.Ext(id))

		for _, sub := range []struct {
			rex *regexp.Regexp
			rep string
		}{
			{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name},
			{regexp.MustCompile(`^\.+`), ""},
		} {
			id = sub.rex.ReplaceAllString(id, sub.rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns the directory reported by base, falling back to the
// named subdirectory of the home directory, then to the working directory.
func userDir(base func() (string, error), home string) string {
	dir, err := base()
	if err == nil {
		return dir
	}

	if dir, err = os.UserHomeDir(); err == nil {
		return filepath.Join(dir, home)
	}

	if dir, err = os.Getwd(); err == nil {
		return dir
	}

	return "."
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), basePrefix())
	},
)

// cacheDir returns the cache directory path used for transient files such as
// the shell history and profiles.
var cacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), basePrefix())
	},
)

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
