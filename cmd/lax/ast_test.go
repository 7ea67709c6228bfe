package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateASTDefaultGrammar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	written, err := generateAST(defaultGrammar, dir)
	if err != nil {
		t.Fatalf("generateAST failed: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got %v", written)
	}

	expr := readGenerated(t, filepath.Join(dir, "expr.go"))
	for _, want := range []string{
		"// Code generated by \"lax ast\"; DO NOT EDIT.",
		"package lax",
		"type Node interface",
		"type BinaryExpr struct",
		"func (n *BinaryExpr) Line() int { return n.Operator.Line }",
		"func (n *LiteralExpr) exprNode() {}",
		"VisitUnaryExpr(*UnaryExpr) (R, error)",
		"func AcceptExpr[R any](node Expression, v ExprVisitor[R]) (R, error)",
	} {
		if !strings.Contains(expr, want) {
			t.Fatalf("expected %q in expr.go:\n%s", want, expr)
		}
	}

	stmt := readGenerated(t, filepath.Join(dir, "stmt.go"))
	if strings.Contains(stmt, "type Node interface") {
		t.Fatalf("Node must only be declared once")
	}
	for _, want := range []string{"type PrintStmt struct", "VisitExprStmt(*ExprStmt) (R, error)", "func AcceptStmt[R any]"} {
		if !strings.Contains(stmt, want) {
			t.Fatalf("expected %q in stmt.go:\n%s", want, stmt)
		}
	}
}

func TestASTCommandWithYAMLGrammar(t *testing.T) {
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "grammar.yaml")
	content := `package: tree
expressions:
  - name: Call
    fields: ["Callee Expression", "Args []Expression"]
    line: Callee.Line()
  - name: Number
    fields: ["Value float64", "line int"]
    line: line
statements:
  - name: Return
    fields: ["Value Expression"]
    line: Value.Line()
`
	if err := os.WriteFile(grammarPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write grammar: %v", err)
	}
	outDir := filepath.Join(dir, "gen")

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lax", "ast", "-out", outDir, "-grammar", grammarPath})
	})
	if err != nil {
		t.Fatalf("ast command failed: %v", err)
	}
	if !strings.Contains(out, "expr.go") || !strings.Contains(out, "stmt.go") {
		t.Fatalf("unexpected output: %q", out)
	}

	expr := readGenerated(t, filepath.Join(outDir, "expr.go"))
	if !strings.Contains(expr, "package tree") || !strings.Contains(expr, "Args   []Expression") {
		t.Fatalf("unexpected expr.go:\n%s", expr)
	}
}

func TestASTCommandRequiresOut(t *testing.T) {
	err := astCommand(nil)
	assertExitCode(t, err, exitUsage)
}

func TestGenerateASTRejectsBadGrammar(t *testing.T) {
	cases := []grammar{
		{Package: "", Expressions: defaultGrammar.Expressions, Statements: defaultGrammar.Statements},
		{Package: "lax", Expressions: []nodeSpec{{Name: "Bad", Fields: []string{"missingtype"}}}, Statements: defaultGrammar.Statements},
		{Package: "lax", Expressions: []nodeSpec{{Name: "Dup"}, {Name: "Dup"}}, Statements: defaultGrammar.Statements},
		{Package: "lax", Expressions: defaultGrammar.Expressions},
	}
	for i, g := range cases {
		if _, err := generateAST(g, t.TempDir()); err == nil {
			t.Fatalf("case %d: expected grammar error", i)
		}
	}
}

func readGenerated(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}
