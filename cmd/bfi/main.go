// Command bfi parses and runs a program on the optimizing interpreter.
//
// Settings are taken, from lowest to highest priority, from the defaults, a
// profile, a YAML config file, BFI_* environment variables (also read from a
// .env file), and flags.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitSyntax  = 2
	exitRuntime = 3
)

type options struct {
	file       string
	eval       string
	operators  string
	profile    string
	configFile string
	tapeSize   string
	cellSize   string
	eof        string
	logLevel   string
	logFormat  string
	dumpIR     bool
	dumpTape   bool
	tapeWindow uint64
}

func newApp(opts *options) *kingpin.Application {
	app := kingpin.New("bfi", "Optimizing brainfuck interpreter.")

	app.Arg("file", "Program source file.").StringVar(&opts.file)
	app.Flag("eval", "Run the given program text instead of a file.").
		Short('e').Envar("BFI_EVAL").StringVar(&opts.eval)
	app.Flag("operators", `The eight operator characters, in the order "><+-[].,".`).
		Envar("BFI_OPERATORS").StringVar(&opts.operators)
	app.Flag("profile", "Named configuration to start from.").
		Envar("BFI_PROFILE").EnumVar(&opts.profile, config.ProfileNames()...)
	app.Flag("config", "YAML config file.").
		Short('c').Envar("BFI_CONFIG").StringVar(&opts.configFile)
	app.Flag("tape-size", "Tape size, e.g. 16 or bit16.").
		Envar("BFI_TAPE_SIZE").StringVar(&opts.tapeSize)
	app.Flag("cell-size", "Cell size, e.g. 8 or bit8.").
		Envar("BFI_CELL_SIZE").StringVar(&opts.cellSize)
	app.Flag("eof", "What input stores at end of input: set0, set1 or ignore.").
		Envar("BFI_EOF").StringVar(&opts.eof)
	app.Flag("dump-ir", "Print the parsed instructions to stderr.").
		BoolVar(&opts.dumpIR)
	app.Flag("dump-tape", "Print the cells around the pointer to stderr after the run.").
		BoolVar(&opts.dumpTape)
	app.Flag("tape-window", "Cells on each side of the pointer for --dump-tape.").
		Default("8").Uint64Var(&opts.tapeWindow)
	app.Flag("log-level", "Log level.").
		Default("warn").Envar("BFI_LOG_LEVEL").
		EnumVar(&opts.logLevel, "trace", "debug", "info", "warn", "error")
	app.Flag("log-format", "Log format.").
		Default("text").Envar("BFI_LOG_FORMAT").
		EnumVar(&opts.logFormat, "text", "json")

	return app
}

func main() {
	atexit.Register(func() {
		_ = os.Stdout.Sync()
	})

	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(stderr, "bfi: %v\n", err)
		return exitUsage
	}

	opts := &options{}
	app := newApp(opts)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "bfi: %v\n", err)
		return exitUsage
	}

	setupLogger(stderr, opts.logLevel, opts.logFormat)

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "bfi: %v\n", err)
		return exitUsage
	}

	ops, err := api.OperatorsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "bfi: %v\n", err)
		return exitUsage
	}

	source, err := readSource(opts)
	if err != nil {
		fmt.Fprintf(stderr, "bfi: %v\n", err)
		return exitUsage
	}

	driver := api.NewDriverBuilder().
		WithConfig(cfg).
		WithOperators(ops).
		Build("BFI")

	if err := driver.MapProgram(source); err != nil {
		fmt.Fprintf(stderr, "bfi: syntax error: %v\n", err)
		return exitSyntax
	}

	if opts.dumpIR {
		core.PrintProgram(stderr, driver.Program())
	}

	driver.FeedIn(stdin)
	driver.Collect(stdout)
	runErr := driver.Run()

	if opts.dumpTape && driver.State() != nil {
		core.PrintState(stderr, driver.State(), opts.tapeWindow)
	}

	switch {
	case runErr == nil:
		return exitOK
	case errors.Is(runErr, core.ErrOutputFailed):
		fmt.Fprintf(stderr, "bfi: %v\n", runErr)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "bfi: runtime error: %v\n", runErr)
		return exitRuntime
	}
}

// loadEnvFile reads BFI_ENV_FILE, or .env, into the environment. Variables
// that are already set win. A missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv("BFI_ENV_FILE")
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

func setupLogger(w io.Writer, level, format string) {
	var lvl slog.Level
	if level == "trace" {
		lvl = core.LevelTrace
	} else if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
}

func resolveConfig(opts *options) (config.Config, error) {
	cfg := config.Default()

	if opts.profile != "" {
		p, err := config.LookupProfile(opts.profile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = p
	}

	if opts.configFile != "" {
		// A file without a profile of its own refines the selected one.
		fileCfg, err := config.LoadOnto(cfg, opts.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	if opts.tapeSize != "" {
		size, err := config.ParseSize(opts.tapeSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("tape size: %w", err)
		}
		cfg.TapeSize = size
	}

	if opts.cellSize != "" {
		size, err := config.ParseSize(opts.cellSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("cell size: %w", err)
		}
		cfg.CellSize = size
	}

	if opts.eof != "" {
		eof, err := config.ParseEOFPolicy(opts.eof)
		if err != nil {
			return config.Config{}, err
		}
		cfg.EOF = eof
	}

	if opts.operators != "" {
		cfg.Operators = opts.operators
	}

	return cfg, cfg.Validate()
}

func readSource(opts *options) (string, error) {
	if opts.eval != "" {
		return opts.eval, nil
	}

	if opts.file == "" {
		return "", errors.New("no program given, pass a file or --eval")
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}

	return string(data), nil
}
