package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/laxlang/lax/lax"
)

// diagnostics renders pipeline errors, one line per fault followed by the
// offending source line when it is known.
type diagnostics struct {
	w          io.Writer
	faultStyle lipgloss.Style
	frameStyle lipgloss.Style
}

func newDiagnostics(w io.Writer, color string) *diagnostics {
	renderer := lipgloss.NewRenderer(w)
	switch color {
	case colorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case colorNever:
		renderer.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			renderer.SetColorProfile(termenv.Ascii)
		}
	}
	return &diagnostics{
		w:          w,
		faultStyle: renderer.NewStyle().Foreground(errorColor).Bold(true),
		frameStyle: renderer.NewStyle().Foreground(mutedColor),
	}
}

func (d *diagnostics) report(source string, err error) {
	faults := lax.Errors(err)
	if len(faults) == 0 {
		fmt.Fprintln(d.w, d.faultStyle.Render(err.Error()))
		return
	}
	for _, fault := range faults {
		fmt.Fprintln(d.w, d.faultStyle.Render(fault.Error()))
		if frame := lax.CodeFrame(source, fault.Line); frame != "" {
			fmt.Fprintln(d.w, d.frameStyle.Render(frame))
		}
	}
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
