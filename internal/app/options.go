package app

import (
	"flag"
	"fmt"

	"slam-robot-sim/internal/config"
)

// Options holds the command-line flags shared by the simulator binaries.
// Flags that were set on the command line override the config file.
type Options struct {
	ConfigPath  string
	Steps       int
	Landmarks   int
	Seed        uint64
	MetricsAddr string
	LogLevel    string

	set map[string]bool
}

// NewFlagSet returns a configured FlagSet bound to opts.
func NewFlagSet(name string, opts *Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML config file (defaults when empty)")
	fs.IntVar(&opts.Steps, "steps", 0, "number of trace steps to simulate")
	fs.IntVar(&opts.Landmarks, "landmarks", 0, "number of landmarks to generate")
	fs.Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs parses argv into opts and records which flags were given.
// Parse errors are reported with usage on the FlagSet's output, so callers
// only map the returned error to an exit code.
func ParseArgs(fs *flag.FlagSet, opts *Options, argv []string) error {
	if err := fs.Parse(argv); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return err
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return nil
}

// LoadConfig loads the config file named by the options and applies flag overrides.
func (o Options) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.set["steps"] {
		cfg.Steps = o.Steps
	}
	if o.set["landmarks"] {
		cfg.Landmarks = o.Landmarks
	}
	if o.set["seed"] {
		cfg.Seed = o.Seed
	}
	if o.set["metrics-addr"] {
		cfg.MetricsAddr = o.MetricsAddr
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
