package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	assertExitCode(t, err, exitUsage)
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSourceFile(t, "print 1;  \r\nprint 2;\t \n\n\n")
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSourceFile(t, "print 1;  \r\nprint 2;\t \n\n\n")
	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "print 1;\nprint 2;\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeSourceFile(t, "// header  \nprint 1;  ")
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "// header\nprint 1;\n" {
		t.Fatalf("unexpected stdout output: %q", out)
	}
}

func TestFmtCommandRejectsInvalidSource(t *testing.T) {
	original := "print 1 +;  \n"
	path := writeSourceFile(t, original)
	err := fmtCommand([]string{"-w", path})
	assertExitCode(t, err, exitDataErr)
	if !strings.Contains(err.Error(), "expected expression") {
		t.Fatalf("unexpected error: %v", err)
	}

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read file: %v", readErr)
	}
	if string(content) != original {
		t.Fatalf("invalid source must be left untouched, got %q", content)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.lax")
	second := filepath.Join(root, "nested", "b.lax")
	ignored := filepath.Join(root, "notes.txt")
	if err := os.MkdirAll(filepath.Dir(second), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	if err := os.WriteFile(first, []byte("print 1;  \n"), 0o644); err != nil {
		t.Fatalf("write first file: %v", err)
	}
	if err := os.WriteFile(second, []byte("print 2;\t\n"), 0o644); err != nil {
		t.Fatalf("write second file: %v", err)
	}
	if err := os.WriteFile(ignored, []byte("not lax  \n"), 0o644); err != nil {
		t.Fatalf("write ignored file: %v", err)
	}

	if err := fmtCommand([]string{"-w", root}); err != nil {
		t.Fatalf("fmt directory failed: %v", err)
	}
	if err := fmtCommand([]string{"-check", root}); err != nil {
		t.Fatalf("expected no formatting diffs after write, got %v", err)
	}

	content, err := os.ReadFile(ignored)
	if err != nil {
		t.Fatalf("read ignored file: %v", err)
	}
	if string(content) != "not lax  \n" {
		t.Fatalf("non-.lax files must not be touched, got %q", content)
	}
}

func TestFormatSourceEmpty(t *testing.T) {
	if got := formatSource("\n\n  \n"); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lax")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lax file: %v", err)
	}
	return path
}
