// Command threeds inspects the materials and texture references of 3DS
// model files and packs models with their textures into zip bundles.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ernie/threeds/internal/config"
)

type command struct {
	name  string
	usage string
	run   func(env *env, args []string) error
	flags func(fs *pflag.FlagSet)
}

// env is what every subcommand runs with.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	stdout io.Writer
}

type globalFlags struct {
	configPath string
	lenient    bool
	charset    string
	output     string
	logLevel   string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", os.Getenv("THREEDS_CONFIG"), "YAML config file")
	fs.BoolVar(&g.lenient, "lenient", false, "allow child chunks to run past their parent")
	fs.StringVar(&g.charset, "charset", "", "legacy code page for names that are not UTF-8 (e.g. windows-1252)")
	fs.StringVarP(&g.output, "output", "O", "", "output format: text, json or yaml")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// apply overlays flags the user set on top of cfg.
func (g *globalFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("lenient") {
		cfg.LenientBounds = g.lenient
	}
	if fs.Changed("charset") {
		cfg.LegacyCharset = g.charset
	}
	if fs.Changed("output") {
		cfg.Output = g.output
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd := lookup(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "threeds: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	fs := pflag.NewFlagSet("threeds "+cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: threeds %s %s\n\nFlags:\n", cmd.name, cmd.usage)
		fs.PrintDefaults()
	}
	var g globalFlags
	g.register(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "threeds: %v\n", err)
		return 1
	}
	g.apply(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "threeds: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.LogLevel)
	log.Logger = logger

	e := &env{cfg: cfg, log: logger, stdout: stdout}
	if err := cmd.run(e, fs.Args()); err != nil {
		logger.Error().Err(err).Str("command", cmd.name).Msg("failed")
		return 1
	}
	return 0
}

func lookup(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [flags] [args]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(w, "\nRun '%s <command> --help' for command flags.\n", filepath.Base(os.Args[0]))
}

// newLogger writes human-readable lines to a terminal and JSON otherwise.
// level has already been validated.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, _ := zerolog.ParseLevel(level)
	out := w
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
