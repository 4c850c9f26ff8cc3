// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is an immutable value configured once with functional options
// and safe to share between goroutines. The zero Logger discards every
// record, which lets libraries accept one without requiring it:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("evaluated", slog.Int("tokens", 3))
//
// Besides the slog levels there is [LevelTrace], one step below debug, for
// per-stage diagnostics of the expression pipeline.
//
// # Output
//
// Records are written as text ([FormatText]) or JSON ([FormatJSON]). With
// [WithPretty] enabled, both formats are rendered by a colorizing handler
// whose colors are dropped automatically when the output is not a terminal.
//
// # Package-level logger
//
// Functions such as [Info] and [ErrorContext] write through a package-level
// logger that targets standard error. [Config] reconfigures it; functions
// without a context argument use [DefaultContextProvider].
package log
