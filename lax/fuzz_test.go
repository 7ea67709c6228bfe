package lax

import (
	"io"
	"testing"
)

func FuzzRunDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("print 1 + 2;")
	f.Add(`print "a" in "abc";`)
	f.Add("print (1 +;")
	f.Add("/* open /* nested */")
	f.Add(`"unterminated`)
	f.Add("print +\"1e400\";")

	engine := MustNewEngine(Config{Stdout: io.Discard, MaxDepth: 64})
	f.Fuzz(func(t *testing.T, source string) {
		if len(source) > 4096 {
			source = source[:4096]
		}
		_ = engine.Run(source)
		_ = engine.Check(source)
		_, _ = engine.FormatExpression(source)
	})
}

func FuzzScanTerminatesWithSingleEOF(f *testing.F) {
	f.Add("1 + 2")
	f.Add("!in !inx")
	f.Add("\"a\nb\"")
	f.Add("é_ident 3.14.")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, _ := Scan(source)
		if len(tokens) == 0 {
			t.Fatalf("expected at least the EOF token")
		}
		for i, tok := range tokens {
			if tok.Type == EOF && i != len(tokens)-1 {
				t.Fatalf("EOF at position %d of %d", i, len(tokens))
			}
			if tok.Line < 1 {
				t.Fatalf("token %v has invalid line", tok)
			}
		}
		if tokens[len(tokens)-1].Type != EOF {
			t.Fatalf("last token is %s, want EOF", tokens[len(tokens)-1].Type)
		}
	})
}
