package lax

import "strings"

// Printer renders expressions in fully parenthesized prefix form, e.g.
// (* (- 123) (group 45.67)).
type Printer struct{}

func NewPrinter() *Printer {
	return &Printer{}
}

func (p *Printer) Print(expr Expression) string {
	out, _ := AcceptExpr[string](expr, p)
	return out
}

// VisitBinaryExpr opens every operator on the left spine, prints the
// innermost left operand, then closes each level with its right operand.
func (p *Printer) VisitBinaryExpr(e *BinaryExpr) (string, error) {
	spine := leftSpine(e)
	var b strings.Builder
	for _, node := range spine {
		b.WriteString("(")
		b.WriteString(node.Operator.Lexeme)
		b.WriteString(" ")
	}
	b.WriteString(p.Print(spine[len(spine)-1].Left))
	for i := len(spine) - 1; i >= 0; i-- {
		b.WriteString(" ")
		b.WriteString(p.Print(spine[i].Right))
		b.WriteString(")")
	}
	return b.String(), nil
}

func (p *Printer) VisitGroupingExpr(e *GroupingExpr) (string, error) {
	return p.parenthesize("group", e.Expression), nil
}

func (p *Printer) VisitLiteralExpr(e *LiteralExpr) (string, error) {
	if e.Value == nil {
		return "nil", nil
	}
	return e.Value.Inspect(), nil
}

func (p *Printer) VisitUnaryExpr(e *UnaryExpr) (string, error) {
	return p.parenthesize(e.Operator.Lexeme, e.Right), nil
}

func (p *Printer) parenthesize(name string, exprs ...Expression) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteString(" ")
		b.WriteString(p.Print(expr))
	}
	b.WriteString(")")
	return b.String()
}

// PrintStatement renders a statement with the same notation, wrapping the
// expression in (print ...) or (expr ...).
func (p *Printer) PrintStatement(stmt Statement) string {
	switch s := stmt.(type) {
	case *PrintStmt:
		return "(print " + p.Print(s.Expression) + ")"
	case *ExprStmt:
		return "(expr " + p.Print(s.Expression) + ")"
	default:
		return ""
	}
}
