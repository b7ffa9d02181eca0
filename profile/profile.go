package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Config selects a profiling mode and output directory.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a [Config].
type Option func(*Config)

func WithMode(mode string) Option { return func(c *Config) { c.Mode = mode } }

func WithPath(path string) Option { return func(c *Config) { c.Path = path } }

// WithQuiet suppresses the profiler's own log lines.
func WithQuiet(quiet bool) Option { return func(c *Config) { c.Quiet = quiet } }

// Start starts the profiler configured by opts. Without a mode, an unknown
// mode, or a build without [Tag], it returns a no-op [Stopper]. Stop is
// always safe to call.
func Start(opts ...Option) Stopper {
	var c Config

	for _, opt := range opts {
		opt(&c)
	}

	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
