package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/laxlang/lax/lax"
)

// checkCommand scans and parses a script without running it and lists every
// lexical and syntax error it finds.
func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	maxDepth := fs.Int("max-depth", lax.DefaultMaxDepth, "maximum expression nesting depth")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return usageError(errors.New("lax check: script path required"))
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return &exitError{code: exitNoInput, err: fmt.Errorf("read script: %w", err)}
	}

	engine, err := lax.NewEngine(lax.Config{MaxDepth: *maxDepth})
	if err != nil {
		return usageError(err)
	}
	faults := lax.Errors(engine.Check(string(input)))
	if len(faults) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, fault := range faults {
		fmt.Printf("%s:%d: %s\n", scriptPath, fault.Line, fault.Message)
	}
	return &exitError{code: exitDataErr, err: fmt.Errorf("check found %d issue(s)", len(faults))}
}
