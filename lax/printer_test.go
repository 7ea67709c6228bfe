package lax

import "testing"

func TestPrinterRendersHandBuiltTree(t *testing.T) {
	expr := &BinaryExpr{
		Left: &UnaryExpr{
			Operator: Token{Type: Minus, Lexeme: "-", Line: 1},
			Right:    NewLiteral(NewNumber(123), 1),
		},
		Operator: Token{Type: Star, Lexeme: "*", Line: 1},
		Right:    &GroupingExpr{Expression: NewLiteral(NewNumber(45.67), 1)},
	}

	printer := NewPrinter()
	want := "(* (- 123) (group 45.67))"
	if got := printer.Print(expr); got != want {
		t.Fatalf("print mismatch: got %s want %s", got, want)
	}
	if got := printer.Print(expr); got != want {
		t.Fatalf("second print differs: got %s", got)
	}
}

func TestPrinterLiterals(t *testing.T) {
	cases := []struct {
		expr Expression
		want string
	}{
		{expr: NewLiteral(NewString("hi"), 1), want: `"hi"`},
		{expr: NewLiteral(NewBool(false), 1), want: "false"},
		{expr: NewLiteral(NewNil(), 1), want: "nil"},
		{expr: &LiteralExpr{}, want: "nil"},
	}
	printer := NewPrinter()
	for _, tc := range cases {
		if got := printer.Print(tc.expr); got != tc.want {
			t.Fatalf("print mismatch: got %s want %s", got, tc.want)
		}
	}
}

func TestPrinterStatements(t *testing.T) {
	tokens, err := Scan("print 1 + 2; 3;")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	printer := NewPrinter()
	if got := printer.PrintStatement(stmts[0]); got != "(print (+ 1 2))" {
		t.Fatalf("unexpected print statement form %s", got)
	}
	if got := printer.PrintStatement(stmts[1]); got != "(expr 3)" {
		t.Fatalf("unexpected expression statement form %s", got)
	}
}

func TestPrinterBinaryChains(t *testing.T) {
	cases := map[string]string{
		"8 - 4 - 2":              "(- (- 8 4) 2)",
		"1 - 2 * 3 - 4 / 2":      "(- (- 1 (* 2 3)) (/ 4 2))",
		"1 < 2 == (3 + 4) * 5":   "(== (< 1 2) (* (group (+ 3 4)) 5))",
		`"a" in "ab" != -1 >= 0`: `(!= (in "a" "ab") (>= (- 1) 0))`,
	}
	printer := NewPrinter()
	for source, want := range cases {
		expr, err := parseExpressionSource(t, source, 0)
		if err != nil {
			t.Fatalf("parse %q: %v", source, err)
		}
		if got := printer.Print(expr); got != want {
			t.Fatalf("print %q: got %s want %s", source, got, want)
		}
	}
}
