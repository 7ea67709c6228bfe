package lax

import "testing"

func TestCodeFrame(t *testing.T) {
	source := "print 1;\nprint 1 +;\r\nprint 3;"
	want := "  --> line 2\n   |\n 2 | print 1 +;"
	if got := CodeFrame(source, 2); got != want {
		t.Fatalf("frame mismatch:\n%q\nwant:\n%q", got, want)
	}
}

func TestCodeFrameOutOfRange(t *testing.T) {
	for _, line := range []int{0, -1, 4} {
		if got := CodeFrame("a\nb\nc", line); got != "" {
			t.Fatalf("line %d: expected empty frame, got %q", line, got)
		}
	}
	if got := CodeFrame("", 1); got != "" {
		t.Fatalf("expected empty frame for empty source, got %q", got)
	}
}
