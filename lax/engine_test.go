package lax

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestEngineRunPrograms(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "arithmetic", source: "print 1 + 2;", want: "3\n"},
		{name: "equality", source: `print "x" == "x";`, want: "true\n"},
		{name: "grouping", source: "print (1 + 2) * 3;", want: "9\n"},
		{name: "multiline", source: "print 1;\n// comment\nprint \"two\";\n", want: "1\ntwo\n"},
		{name: "empty", source: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			engine := MustNewEngine(Config{Stdout: &out})
			if err := engine.Run(tc.source); err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.String() != tc.want {
				t.Fatalf("output mismatch: got %q want %q", out.String(), tc.want)
			}
		})
	}
}

func TestEngineRunSyntaxErrorExecutesNothing(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	err := engine.Run("print 1;\nprint 1 +;")
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if err.Error() != "[line 2] Error at ';': expected expression" {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestEngineRunReportsEveryLexicalError(t *testing.T) {
	engine := MustNewEngine(Config{})
	err := engine.Run("print @;\nprint #;")
	faults := Errors(err)
	if len(faults) != 2 {
		t.Fatalf("expected 2 lexical faults, got %v", err)
	}
	for _, fault := range faults {
		if fault.Kind != LexicalError {
			t.Fatalf("expected lexical error, got %s", fault.Kind)
		}
	}
}

func TestEngineRecoverParseErrors(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out, RecoverParseErrors: true})
	err := engine.Run("print 1 +;\nprint 2;\nprint (3;")
	faults := Errors(err)
	if len(faults) != 2 {
		t.Fatalf("expected 2 syntax faults, got %v", err)
	}
	if faults[0].Line != 1 || faults[1].Line != 3 {
		t.Fatalf("unexpected fault lines %d and %d", faults[0].Line, faults[1].Line)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing to run, got %q", out.String())
	}
}

func TestEngineCheck(t *testing.T) {
	engine := MustNewEngine(Config{})
	if err := engine.Check("print 1; print 2;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := engine.Check("print 1 @;\nprint 1 +;\nprint 2")
	faults := Errors(err)
	if len(faults) != 3 {
		t.Fatalf("expected 3 faults, got %v", err)
	}
	if faults[0].Kind != LexicalError || faults[1].Kind != SyntaxError || faults[2].Kind != SyntaxError {
		t.Fatalf("unexpected fault kinds: %s, %s, %s", faults[0].Kind, faults[1].Kind, faults[2].Kind)
	}
}

func TestEngineCheckReportsLexicalFaultOnce(t *testing.T) {
	engine := MustNewEngine(Config{})
	faults := Errors(engine.Check("print @;\nprint 1 +;"))
	if len(faults) != 2 {
		t.Fatalf("expected 2 faults, got %v", faults)
	}
	if faults[0].Kind != LexicalError || faults[0].Line != 1 {
		t.Fatalf("unexpected first fault: %v", faults[0])
	}
	if faults[1].Kind != SyntaxError || faults[1].Line != 2 {
		t.Fatalf("unexpected second fault: %v", faults[1])
	}
}

func TestEngineCheckDoesNotExecute(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	if err := engine.Check(`print "a" + 1;`); err != nil {
		t.Fatalf("runtime faults are not checked: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestEngineEvalExpression(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	val, err := engine.EvalExpression(`"con" + "cat"`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if val.String() != "concat" || out.String() != "concat\n" {
		t.Fatalf("unexpected value %q / output %q", val.String(), out.String())
	}

	if _, err := engine.EvalExpression("1 +"); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := engine.EvalExpression("1; 2"); err == nil {
		t.Fatalf("expected trailing input to be rejected")
	}
}

func TestEngineFormatExpression(t *testing.T) {
	engine := MustNewEngine(Config{})
	got, err := engine.FormatExpression("-123 * (45.67)")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "(* (- 123) (group 45.67))" {
		t.Fatalf("unexpected form %s", got)
	}
}

func TestEngineMaxDepth(t *testing.T) {
	engine := MustNewEngine(Config{MaxDepth: 2})
	err := engine.Run("print ---1;")
	if err == nil || !strings.Contains(err.Error(), "expression nests too deeply") {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestEngineLongBinaryChains(t *testing.T) {
	// A recursive walk needs far more than this for 200k operators.
	defer debug.SetMaxStack(debug.SetMaxStack(16 << 20))

	const n = 200_000
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	if err := engine.Run("print 1" + strings.Repeat(" + 1", n) + ";"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "200001\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	err := engine.Run(`print 1` + strings.Repeat(" + 1", n) + ` + "x";`)
	if err == nil || !strings.Contains(err.Error(), "invalid operands for +: 200001 and \"x\"") {
		t.Fatalf("expected runtime error at the end of the chain, got %v", err)
	}

	form, err := engine.FormatExpression("2" + strings.Repeat(" * 2", n))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := strings.Repeat("(* ", n) + "2" + strings.Repeat(" 2)", n)
	if form != want {
		t.Fatalf("unexpected form of length %d, want length %d", len(form), len(want))
	}
}

func TestNewEngineRejectsNegativeDepth(t *testing.T) {
	if _, err := NewEngine(Config{MaxDepth: -1}); err == nil {
		t.Fatalf("expected config error")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustNewEngine to panic")
		}
	}()
	MustNewEngine(Config{MaxDepth: -1})
}

func TestEngineConfigSummary(t *testing.T) {
	engine := MustNewEngine(Config{})
	if got := engine.ConfigSummary(); got != "max_depth=512 recover_parse_errors=false" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestEngineDebugTrace(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	engine := MustNewEngine(Config{Logger: logger})
	if err := engine.Run("print 1 + 2;"); err != nil {
		t.Fatalf("run: %v", err)
	}

	trace := logs.String()
	for _, want := range []string{"scanned", "tokens=6", "token", "parsed", "(print (+ 1 2))"} {
		if !strings.Contains(trace, want) {
			t.Fatalf("expected %q in trace:\n%s", want, trace)
		}
	}
}
