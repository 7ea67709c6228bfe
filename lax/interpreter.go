package lax

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Interpreter evaluates statements and expressions by walking the tree.
// It holds no state besides its output writer.
type Interpreter struct {
	out io.Writer
}

func NewInterpreter(out io.Writer) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{out: out}
}

// Execute runs stmts in order and stops at the first failure. Output written
// by earlier statements is not undone.
func (in *Interpreter) Execute(stmts []Statement) error {
	for _, stmt := range stmts {
		if _, err := AcceptStmt[struct{}](stmt, in); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) Evaluate(expr Expression) (Value, error) {
	return AcceptExpr[Value](expr, in)
}

// Interpret evaluates expr and prints its value.
func (in *Interpreter) Interpret(expr Expression) (Value, error) {
	val, err := in.Evaluate(expr)
	if err != nil {
		return NewNil(), err
	}
	if err := in.write(val); err != nil {
		return NewNil(), err
	}
	return val, nil
}

func (in *Interpreter) VisitExprStmt(s *ExprStmt) (struct{}, error) {
	_, err := in.Evaluate(s.Expression)
	return struct{}{}, err
}

func (in *Interpreter) VisitPrintStmt(s *PrintStmt) (struct{}, error) {
	val, err := in.Evaluate(s.Expression)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, in.write(val)
}

func (in *Interpreter) VisitLiteralExpr(e *LiteralExpr) (Value, error) {
	if e.Value == nil {
		return NewNil(), nil
	}
	return *e.Value, nil
}

func (in *Interpreter) VisitGroupingExpr(e *GroupingExpr) (Value, error) {
	return in.Evaluate(e.Expression)
}

func (in *Interpreter) VisitUnaryExpr(e *UnaryExpr) (Value, error) {
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return NewNil(), err
	}
	switch e.Operator.Type {
	case Minus:
		if right.Kind() != KindNumber {
			return NewNil(), nil
		}
		return NewNumber(-right.Number()), nil
	case Bang, Not:
		return NewBool(!right.Truthy()), nil
	case Plus:
		if right.Kind() != KindString {
			return NewNil(), newTokenError(RuntimeError, e.Operator, "invalid operand for unary +: %s", right.Inspect())
		}
		n, ok := parseNumber(right.String())
		if !ok {
			return NewNil(), newTokenError(RuntimeError, e.Operator, "could not parse %s to a number", right.Inspect())
		}
		return NewNumber(n), nil
	default:
		return NewNil(), newTokenError(RuntimeError, e.Operator, "unsupported unary operator %s", e.Operator.Lexeme)
	}
}

// VisitBinaryExpr folds the left spine in a loop. Only grouping and unary
// operators add recursion, and the parser bounds those.
func (in *Interpreter) VisitBinaryExpr(e *BinaryExpr) (Value, error) {
	spine := leftSpine(e)
	left, err := in.Evaluate(spine[len(spine)-1].Left)
	if err != nil {
		return NewNil(), err
	}
	for i := len(spine) - 1; i >= 0; i-- {
		node := spine[i]
		right, err := in.Evaluate(node.Right)
		if err != nil {
			return NewNil(), err
		}
		if left, err = applyBinary(node.Operator, left, right); err != nil {
			return NewNil(), err
		}
	}
	return left, nil
}

func applyBinary(op Token, left, right Value) (Value, error) {
	switch op.Type {
	case Plus:
		if left.Kind() == KindString && right.Kind() == KindString {
			return NewString(left.String() + right.String()), nil
		}
		return numeric(op, left, right, func(a, b float64) Value { return NewNumber(a + b) })
	case Minus:
		return numeric(op, left, right, func(a, b float64) Value { return NewNumber(a - b) })
	case Star:
		return numeric(op, left, right, func(a, b float64) Value { return NewNumber(a * b) })
	case Slash:
		return numeric(op, left, right, func(a, b float64) Value { return NewNumber(a / b) })
	case Greater:
		return numeric(op, left, right, func(a, b float64) Value { return NewBool(a > b) })
	case GreaterEqual:
		return numeric(op, left, right, func(a, b float64) Value { return NewBool(a >= b) })
	case Less:
		return numeric(op, left, right, func(a, b float64) Value { return NewBool(a < b) })
	case LessEqual:
		return numeric(op, left, right, func(a, b float64) Value { return NewBool(a <= b) })
	case EqualEqual, BangEqual:
		eq, ok := equalValues(left, right)
		if !ok {
			return NewNil(), invalidOperands(op, left, right)
		}
		if op.Type == BangEqual {
			eq = !eq
		}
		return NewBool(eq), nil
	case In, BangIn:
		if left.Kind() != KindString || right.Kind() != KindString {
			return NewNil(), invalidOperands(op, left, right)
		}
		found := strings.Contains(right.String(), left.String())
		if op.Type == BangIn {
			found = !found
		}
		return NewBool(found), nil
	default:
		return NewNil(), newTokenError(RuntimeError, op, "unsupported binary operator %s", op.Lexeme)
	}
}

func (in *Interpreter) write(val Value) error {
	if _, err := fmt.Fprintln(in.out, val.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// parseNumber reads decimal float text, including inf and nan. Digit
// separators and hex mantissas are rejected even though strconv takes them.
// Out of range values saturate to infinity.
func parseNumber(text string) (float64, bool) {
	if strings.ContainsRune(text, '_') {
		return 0, false
	}
	digits := strings.TrimLeft(text, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

func numeric(op Token, left, right Value, fn func(a, b float64) Value) (Value, error) {
	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), invalidOperands(op, left, right)
	}
	return fn(left.Number(), right.Number()), nil
}

// equalValues compares two numbers, strings or booleans. ok is false for
// any other pairing, including mixed kinds and nil.
func equalValues(left, right Value) (eq bool, ok bool) {
	if left.Kind() != right.Kind() {
		return false, false
	}
	switch left.Kind() {
	case KindNumber:
		return left.Number() == right.Number(), true
	case KindString:
		return left.String() == right.String(), true
	case KindBool:
		return left.Bool() == right.Bool(), true
	default:
		return false, false
	}
}

func invalidOperands(op Token, left, right Value) error {
	return newTokenError(RuntimeError, op, "invalid operands for %s: %s and %s", op.Lexeme, left.Inspect(), right.Inspect())
}
