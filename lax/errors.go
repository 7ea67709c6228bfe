package lax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies the pipeline stage that detected a fault.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
	RuntimeError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case RuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("error(%d)", int(k))
	}
}

// Error is the single error shape produced by the scanner, parser and
// interpreter. Constructing one has no side effects; reporting is left to
// the caller.
type Error struct {
	Kind    ErrorKind
	Line    int
	Token   *Token
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Token == nil:
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	case e.Token.Type == EOF:
		return fmt.Sprintf("[line %d] Error at end: %s", e.Line, e.Message)
	default:
		return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Token.Lexeme, e.Message)
	}
}

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

func newTokenError(kind ErrorKind, tok Token, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: tok.Line, Token: &tok, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects several faults from one pass.
type ErrorList []*Error

func (l ErrorList) Error() string {
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

// Err returns nil for an empty list, the lone error for a single-element
// list, and the list itself otherwise.
func (l ErrorList) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	default:
		return l
	}
}

// Errors flattens err into the faults it carries. Errors that wrap neither
// *Error nor ErrorList yield nil.
func Errors(err error) []*Error {
	var list ErrorList
	if errors.As(err, &list) {
		return list
	}
	var single *Error
	if errors.As(err, &single) {
		return []*Error{single}
	}
	return nil
}
