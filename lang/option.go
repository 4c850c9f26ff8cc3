package lang

import "github.com/ardnew/vac/log"

// DefaultMaxDepth is the default maximum nesting depth accepted by the
// parser. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 256

// config holds the options shared by every stage of the pipeline.
type config struct {
	logger   log.Logger
	maxDepth int
	verify   bool
}

// Option configures lexing, parsing, or evaluation behavior.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth accepted by the parser. Groups,
// sets, absolute values, and every operator application each count as one
// level, so long operator chains are bounded as well as deep brackets.
// A depth less than 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithVerify enables cross-checking of results in [Run].
func WithVerify(enable bool) Option {
	return func(c *config) {
		c.verify = enable
	}
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
