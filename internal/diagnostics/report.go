package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/structural/internal/config"
)

// Report accumulates errors across a checking run. It is used by callers
// that want to collect multiple failures instead of stopping at the first.
type Report struct {
	RunID  string
	Errors []*DiagnosticError
	Max    int
}

func NewReport(runID string, opts config.Options) *Report {
	return &Report{RunID: runID, Max: opts.MaxDiagnostics}
}

// Add records err if it is a DiagnosticError and the report is not full.
// It reports whether the caller should keep going.
func (r *Report) Add(err error) bool {
	if err == nil {
		return true
	}
	de, ok := err.(*DiagnosticError)
	if !ok {
		de = &DiagnosticError{Code: "T000", Message: err.Error()}
	}
	if r.Max > 0 && len(r.Errors) >= r.Max {
		return false
	}
	r.Errors = append(r.Errors, de)
	return r.Max <= 0 || len(r.Errors) < r.Max
}

func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

const (
	ansiRed   = "\x1b[31m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Printer writes a report in a human-readable form.
type Printer struct {
	Out   io.Writer
	color bool
}

func NewPrinter(out io.Writer, opts config.Options) *Printer {
	p := &Printer{Out: out}
	switch opts.Color {
	case "always":
		p.color = true
	case "never":
		p.color = false
	default:
		if f, ok := out.(*os.File); ok {
			p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return p
}

func (p *Printer) Print(r *Report) {
	for _, e := range r.Errors {
		if p.color {
			fmt.Fprintf(p.Out, "%serror[%s]%s %s\n", ansiRed, e.Code, ansiReset, e.Message)
		} else {
			fmt.Fprintf(p.Out, "error[%s] %s\n", e.Code, e.Message)
		}
	}
	if r.HasErrors() {
		if p.color {
			fmt.Fprintf(p.Out, "%s%d error(s), run %s%s\n", ansiDim, len(r.Errors), r.RunID, ansiReset)
		} else {
			fmt.Fprintf(p.Out, "%d error(s), run %s\n", len(r.Errors), r.RunID)
		}
	}
}
