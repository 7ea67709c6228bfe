package lax

import "fmt"

type Node interface {
	Line() int
}

type Expression interface {
	Node
	exprNode()
}

type Statement interface {
	Node
	stmtNode()
}

type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *BinaryExpr) exprNode() {}
func (e *BinaryExpr) Line() int { return e.Operator.Line }

// leftSpine returns e followed by every BinaryExpr reached through Left,
// outermost first. The parser folds each precedence tier to the left, so a
// long chain is deep only along this spine.
func leftSpine(e *BinaryExpr) []*BinaryExpr {
	spine := []*BinaryExpr{e}
	for {
		next, ok := spine[len(spine)-1].Left.(*BinaryExpr)
		if !ok {
			return spine
		}
		spine = append(spine, next)
	}
}

type GroupingExpr struct {
	Expression Expression
}

func (e *GroupingExpr) exprNode() {}
func (e *GroupingExpr) Line() int { return e.Expression.Line() }

// LiteralExpr holds a constant. Value is never nil once the parser has
// produced the node; the printer still tolerates a nil Value.
type LiteralExpr struct {
	Value    *Value
	position int
}

func (e *LiteralExpr) exprNode() {}
func (e *LiteralExpr) Line() int { return e.position }

type UnaryExpr struct {
	Operator Token
	Right    Expression
}

func (e *UnaryExpr) exprNode() {}
func (e *UnaryExpr) Line() int { return e.Operator.Line }

type ExprStmt struct {
	Expression Expression
}

func (s *ExprStmt) stmtNode() {}
func (s *ExprStmt) Line() int { return s.Expression.Line() }

type PrintStmt struct {
	Expression Expression
	position   int
}

func (s *PrintStmt) stmtNode() {}
func (s *PrintStmt) Line() int { return s.position }

// ExprVisitor is implemented once per algorithm over expressions. Leaving
// out a case is a compile error at the implementing type.
type ExprVisitor[R any] interface {
	VisitBinaryExpr(*BinaryExpr) (R, error)
	VisitGroupingExpr(*GroupingExpr) (R, error)
	VisitLiteralExpr(*LiteralExpr) (R, error)
	VisitUnaryExpr(*UnaryExpr) (R, error)
}

type StmtVisitor[R any] interface {
	VisitExprStmt(*ExprStmt) (R, error)
	VisitPrintStmt(*PrintStmt) (R, error)
}

// AcceptExpr dispatches expr to the matching visitor method.
func AcceptExpr[R any](expr Expression, v ExprVisitor[R]) (R, error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		return v.VisitBinaryExpr(e)
	case *GroupingExpr:
		return v.VisitGroupingExpr(e)
	case *LiteralExpr:
		return v.VisitLiteralExpr(e)
	case *UnaryExpr:
		return v.VisitUnaryExpr(e)
	default:
		var zero R
		return zero, fmt.Errorf("unsupported expression %T", expr)
	}
}

// AcceptStmt dispatches stmt to the matching visitor method.
func AcceptStmt[R any](stmt Statement, v StmtVisitor[R]) (R, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		return v.VisitExprStmt(s)
	case *PrintStmt:
		return v.VisitPrintStmt(s)
	default:
		var zero R
		return zero, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// NewLiteral builds a literal node for value at the given line.
func NewLiteral(value Value, line int) *LiteralExpr {
	return &LiteralExpr{Value: &value, position: line}
}
