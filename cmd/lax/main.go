package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/laxlang/lax/lax"
)

// Exit statuses follow sysexits(3).
const (
	exitFailure = 1
	exitUsage   = 64
	exitDataErr = 65
	exitNoInput = 66
	exitConfig  = 78
)

func main() {
	if err := runCLI(os.Args); err != nil {
		os.Exit(reportFailure(err))
	}
}

// exitError carries a process status out of a command. quiet means the
// command already rendered its diagnostics.
type exitError struct {
	code  int
	err   error
	quiet bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func reportFailure(err error) int {
	var exit *exitError
	if !errors.As(err, &exit) {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if !exit.quiet {
		fmt.Fprintln(os.Stderr, exit.err)
	}
	return exit.code
}

func runCLI(args []string) error {
	if len(args) >= 2 {
		switch args[1] {
		case "expr":
			return exprCommand(args[2:])
		case "check":
			return checkCommand(args[2:])
		case "fmt":
			return fmtCommand(args[2:])
		case "ast":
			return astCommand(args[2:])
		case "lsp":
			return lspCommand(args[2:])
		case "help", "-h", "--help":
			printUsage()
			return nil
		}
	}
	if len(args) == 0 {
		return runCommand(nil)
	}
	return runCommand(args[1:])
}

// runCommand runs a script file, or the REPL when no script is given.
func runCommand(args []string) error {
	fs := flag.NewFlagSet("lax", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "path to a YAML config file")
	debug := fs.Bool("debug", false, "log the scan and parse pipeline to stderr")
	plain := fs.Bool("plain", false, "use the line REPL even on a terminal")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return &exitError{code: exitConfig, err: err}
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return &exitError{code: exitConfig, err: err}
	}
	engineCfg := cfg.engineConfig(os.Stdout, logger)
	diag := newDiagnostics(os.Stderr, cfg.Color)

	remaining := fs.Args()
	switch len(remaining) {
	case 0:
		if !*plain && !*debug && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			logger.Debug("starting terminal repl")
			return runREPL(cfg.Prompt, engineCfg)
		}
		engine, err := lax.NewEngine(engineCfg)
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}
		return runLineREPL(engine, os.Stdin, os.Stdout, diag, cfg.Prompt)
	case 1:
		engine, err := lax.NewEngine(engineCfg)
		if err != nil {
			return &exitError{code: exitConfig, err: err}
		}
		return runFile(engine, diag, remaining[0])
	default:
		return usageError(errors.New("lax: at most one script path allowed"))
	}
}

func runFile(engine *lax.Engine, diag *diagnostics, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return &exitError{code: exitNoInput, err: fmt.Errorf("read script: %w", err)}
	}
	if err := engine.Run(string(source)); err != nil {
		diag.report(string(source), err)
		return &exitError{code: exitDataErr, err: err, quiet: true}
	}
	return nil
}

func usageError(err error) error {
	printUsage()
	if err == nil {
		err = errors.New("invalid command")
	}
	return &exitError{code: exitUsage, err: err}
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [script]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s expr [-ast] <expression>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s check <script>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s fmt [-w] [-check] <path>...\n", prog)
	fmt.Fprintf(os.Stderr, "       %s ast -out <dir> [-grammar <file>]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s lsp\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config string")
	fmt.Fprintln(os.Stderr, "    YAML config file (default $LAX_CONFIG)")
	fmt.Fprintln(os.Stderr, "  -debug")
	fmt.Fprintln(os.Stderr, "    log the scan and parse pipeline to stderr")
	fmt.Fprintln(os.Stderr, "  -plain")
	fmt.Fprintln(os.Stderr, "    use the line REPL even on a terminal")
	fmt.Fprintln(os.Stderr, "Without a script, an interactive prompt starts; an empty line exits.")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
