package profile

import "github.com/spf13/pflag"

// Config holds profile output paths; empty paths disable the respective
// profile. Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	CPUProfile  string
	HeapProfile string
}

// NewConfig returns a [Config] with all profiles disabled.
func NewConfig() *Config {
	return &Config{}
}

// RegisterFlags adds profiling flags to the given flag set.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, "cpu-profile", "", "write a CPU profile to this path")
	flags.StringVar(&c.HeapProfile, "heap-profile", "", "write a heap profile to this path")
}

// NewProfiler creates a [Profiler] for this configuration.
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{cfg: *c}
}
