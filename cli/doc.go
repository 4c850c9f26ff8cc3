// Package cli contains the command line interface for vac.
//
// # Usage
//
// With no command, vac starts the interactive shell:
//
//	vac
//
// Other commands evaluate or inspect expressions without the shell:
//
//	vac eval '(1, 2) * 2'         # ( 2 4 )
//	vac eval -o json 'x - 1 + 2'  # symbolic result as JSON
//	vac run sums.vac              # evaluate each line of a script
//	vac fmt '1 + 2 * 3'           # (1 + (2 * 3))
//	vac fmt tokens '|x|'          # one token per line
//	vac init                      # write the current flags to config.yaml
//
// Scripts named without a path separator are searched in the working
// directory, then the scripts directory under the configuration directory,
// then each directory listed in VACPATH.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the
// configuration directory (e.g., ~/.config/vac). The YAML loader accepts
// hyphenated or underscored flag names and flattens nested mappings:
//
//	log-level: debug
//	log:
//	  format: json
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o vac .
//
// It adds these flags:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/vac/pprof)
package cli
