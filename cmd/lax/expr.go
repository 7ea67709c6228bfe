package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/laxlang/lax/lax"
)

// exprCommand evaluates a single expression given on the command line, or
// prints its prefix form with -ast.
func exprCommand(args []string) error {
	fs := flag.NewFlagSet("expr", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	showAST := fs.Bool("ast", false, "print the parsed expression instead of its value")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() == 0 {
		return usageError(errors.New("lax expr: expression required"))
	}
	source := strings.Join(fs.Args(), " ")

	engine := lax.MustNewEngine(lax.Config{Stdout: os.Stdout})
	diag := newDiagnostics(os.Stderr, colorAuto)

	if *showAST {
		form, err := engine.FormatExpression(source)
		if err != nil {
			diag.report(source, err)
			return &exitError{code: exitDataErr, err: err, quiet: true}
		}
		fmt.Println(form)
		return nil
	}

	if _, err := engine.EvalExpression(source); err != nil {
		diag.report(source, err)
		return &exitError{code: exitDataErr, err: err, quiet: true}
	}
	return nil
}
