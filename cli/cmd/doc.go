// Package cmd implements the vac subcommands: the interactive shell, eval,
// run, fmt, and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// ScriptsIdentifier is the kong variable identifier containing the path
	// to the directory searched first for scripts given to run.
	ScriptsIdentifier = "scripts"
)
