// tapewalk runs programs for the eight-command tape language.
// With file arguments it runs each file; without, it starts a REPL.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/tapewalk/tapewalk/pkg/config"
	"github.com/tapewalk/tapewalk/pkg/interpreter"
	"github.com/tapewalk/tapewalk/pkg/parser"
	"github.com/tapewalk/tapewalk/pkg/types"
)

var (
	flagConfig   = flag.String("config", "", "YAML settings file")
	flagDebug    = flag.Bool("debug", false, "Trace every instruction")
	flagGas      = flag.Int("gas", -1, "Step limit (0 = unlimited)")
	flagTape     = flag.Int("tape", 0, "Initial tape length")
	flagStrict   = flag.Bool("strict", false, "Reject unclosed loops")
	flagQuiet    = flag.Bool("quiet", false, "Quiet mode (no banner)")
	flagLogLevel = flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
)

// logLevel gates the default handler; :debug lowers it to the trace level.
var (
	logLevel        = new(slog.LevelVar)
	configuredLevel = slog.LevelInfo
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(2)
	}

	configuredLevel, _ = config.ParseLevel(cfg.LogLevel)
	logLevel.Set(configuredLevel)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	interp := interpreter.New()
	interp.Input = bufio.NewReader(os.Stdin)
	cfg.Apply(interp)

	args := flag.Args()
	if len(args) == 0 {
		runREPL(interp)
		atexit.Exit(0)
	}

	for _, filename := range args {
		if err := runFile(interp, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			atexit.Exit(1)
		}
		interp.Reset()
	}
	atexit.Exit(0)
}

// loadConfig layers command-line flags over the config file.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = *flagDebug
		case "strict":
			cfg.Strict = *flagStrict
		}
	})
	if *flagGas >= 0 {
		cfg.Gas = *flagGas
	}
	if *flagTape > 0 {
		cfg.TapeSize = *flagTape
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if cfg.Debug && *flagLogLevel == "" {
		cfg.LogLevel = "trace"
	}
	return cfg, cfg.Validate()
}

func runFile(interp *interpreter.Interpreter, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return runSource(interp, string(data), filename)
}

func runSource(interp *interpreter.Interpreter, source, filename string) error {
	program, err := parser.ParseWith(filename, source, parser.Options{Strict: interp.Strict})
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	slog.Debug("parsed", "file", filename, "bytes", len(source), "nodes", types.Count(program))

	if err := interp.Run(program); err != nil {
		if errors.Is(err, interpreter.ErrGasExhausted) {
			return fmt.Errorf("runtime error in %s: %w (%s)", filename, err, interp.GasString())
		}
		return fmt.Errorf("%s: %w", filename, err)
	}
	slog.Debug("done", "file", filename, "steps", interp.Steps, "tape", interp.Memory.Len())
	return nil
}
