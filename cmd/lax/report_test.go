package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/laxlang/lax/lax"
)

func TestDiagnosticsRenderFaultsWithCodeFrame(t *testing.T) {
	source := "print 1;\nprint @;\nprint 2 +;"
	engine := lax.MustNewEngine(lax.Config{RecoverParseErrors: true})
	err := engine.Check(source)

	var buf bytes.Buffer
	newDiagnostics(&buf, colorNever).report(source, err)
	out := buf.String()

	for _, want := range []string{
		"[line 2] Error: unexpected character '@'",
		"2 | print @;",
		"[line 3] Error at ';': expected expression",
		"3 | print 2 +;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in diagnostics:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain output with color disabled:\n%q", out)
	}
}

func TestDiagnosticsRenderPlainError(t *testing.T) {
	var buf bytes.Buffer
	newDiagnostics(&buf, colorNever).report("", errors.New("write output: closed"))
	if got := strings.TrimSpace(buf.String()); got != "write output: closed" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Fatalf("a buffer is never a terminal")
	}
}
