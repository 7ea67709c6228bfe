package lax

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Config controls where output goes and how strictly sources are parsed.
type Config struct {
	Stdout             io.Writer
	Logger             *log.Logger
	MaxDepth           int
	RecoverParseErrors bool
}

// Engine runs Lax sources through the scan, parse and execute pipeline.
// It keeps no state between runs, so one Engine can serve every REPL line.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine, filling in defaults for unset fields.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Engine{config: cfg}, nil
}

// MustNewEngine is like NewEngine but panics on an invalid config.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Run scans, parses and executes source. Nothing runs unless the whole
// source scans and parses cleanly.
func (e *Engine) Run(source string) error {
	tokens, err := e.scan(source)
	if err != nil {
		return err
	}
	stmts, err := e.parse(tokens)
	if err != nil {
		return err
	}
	return NewInterpreter(e.config.Stdout).Execute(stmts)
}

// Check reports every lexical and syntax error in source without executing it.
// A line with a lexical error reports only that error; the syntax errors the
// dropped character causes on the same line are not repeated.
func (e *Engine) Check(source string) error {
	scanner := NewScanner(source)
	tokens, _ := scanner.ScanTokens()
	errs := ErrorList(scanner.Errors())

	lexical := make(map[int]struct{}, len(errs))
	for _, fault := range errs {
		lexical[fault.Line] = struct{}{}
	}

	_, parseErrs := NewParser(tokens, e.config.MaxDepth).ParseWithRecovery()
	for _, fault := range parseErrs {
		if _, seen := lexical[fault.Line]; seen {
			continue
		}
		errs = append(errs, fault)
	}
	return errs.Err()
}

// EvalExpression evaluates source as a single expression and writes its
// value to the configured output.
func (e *Engine) EvalExpression(source string) (Value, error) {
	expr, err := e.parseExpression(source)
	if err != nil {
		return NewNil(), err
	}
	return NewInterpreter(e.config.Stdout).Interpret(expr)
}

// FormatExpression parses source as a single expression and returns its
// parenthesized prefix form.
func (e *Engine) FormatExpression(source string) (string, error) {
	expr, err := e.parseExpression(source)
	if err != nil {
		return "", err
	}
	return NewPrinter().Print(expr), nil
}

// ConfigSummary provides a human-readable description of the engine settings.
func (e *Engine) ConfigSummary() string {
	return fmt.Sprintf("max_depth=%d recover_parse_errors=%t", e.config.MaxDepth, e.config.RecoverParseErrors)
}

func (e *Engine) scan(source string) ([]Token, error) {
	scanner := NewScanner(source)
	tokens, _ := scanner.ScanTokens()
	if errs := ErrorList(scanner.Errors()); len(errs) > 0 {
		return nil, errs.Err()
	}

	logger := e.config.Logger
	if logger.GetLevel() <= log.DebugLevel {
		logger.Debug("scanned", "tokens", len(tokens))
		for _, tok := range tokens {
			logger.Debug("token", "line", tok.Line, "type", tok.Type, "lexeme", tok.Lexeme)
		}
	}
	return tokens, nil
}

func (e *Engine) parse(tokens []Token) ([]Statement, error) {
	parser := NewParser(tokens, e.config.MaxDepth)

	var stmts []Statement
	if e.config.RecoverParseErrors {
		var errs ErrorList
		stmts, errs = parser.ParseWithRecovery()
		if err := errs.Err(); err != nil {
			return nil, err
		}
	} else {
		var err error
		stmts, err = parser.Parse()
		if err != nil {
			return nil, err
		}
	}

	logger := e.config.Logger
	if logger.GetLevel() <= log.DebugLevel {
		printer := NewPrinter()
		for _, stmt := range stmts {
			logger.Debug("parsed", "line", stmt.Line(), "stmt", printer.PrintStatement(stmt))
		}
	}
	return stmts, nil
}

func (e *Engine) parseExpression(source string) (Expression, error) {
	tokens, err := e.scan(source)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, e.config.MaxDepth).ParseExpression()
}
