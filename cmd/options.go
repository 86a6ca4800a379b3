package cmd

// Options holds the shared command-line options for the pulse CLI.
// Zero values mean "use the configured value".
type Options struct {
	Format    string
	Org       string
	User      string
	StaleDays int
	Bots      []string
	Transport string
	Timeout   string
	Out       string
	Verbosity int
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (digest, table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithOrg sets the organization to scan.
func WithOrg(org string) Option {
	return func(o *Options) {
		o.Org = org
	}
}

// WithUser sets the identity whose PRs count as "mine".
func WithUser(user string) Option {
	return func(o *Options) {
		o.User = user
	}
}

// WithStaleDays sets the inactivity threshold in whole days.
func WithStaleDays(days int) Option {
	return func(o *Options) {
		o.StaleDays = days
	}
}

// WithBots replaces the known-bots set.
func WithBots(bots []string) Option {
	return func(o *Options) {
		o.Bots = bots
	}
}

// WithTransport selects how the GitHub API is reached (auto, gh, api).
func WithTransport(transport string) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// WithTimeout sets the per-call timeout (e.g., "30s", "2m").
func WithTimeout(timeout string) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithOut sets where the JSON record is written ("-" for stdout).
func WithOut(path string) Option {
	return func(o *Options) {
		o.Out = path
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}

// WithCPUProfile sets the CPU profile output file.
func WithCPUProfile(path string) Option {
	return func(o *Options) {
		o.CPUProfile = path
	}
}

// WithMemProfile sets the memory profile output file.
func WithMemProfile(path string) Option {
	return func(o *Options) {
		o.MemProfile = path
	}
}

// WithTrace sets the execution trace output file.
func WithTrace(path string) Option {
	return func(o *Options) {
		o.Trace = path
	}
}

