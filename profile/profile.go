package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log messages
}

// Option configures a [Profiler].
type Option func(Profiler) Profiler

// New returns a Profiler with opts applied.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet controls the profiler's own log messages.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start begins profiling and returns a Stopper that ends it.
// An empty or unsupported mode, or a binary built without the pprof tag,
// yields a Stopper that does nothing.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
