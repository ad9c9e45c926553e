package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrettyOpts controls human-readable output.
type PrettyOpts struct {
	Color bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	locColor     = color.New(color.Bold)
	textColor    = color.New(color.Faint)
)

func severityColor(s Severity) *color.Color {
	switch s {
	case SevError:
		return errorColor
	case SevWarning:
		return warningColor
	}
	return infoColor
}

// Pretty prints one diagnostic per entry:
//
//	<source>:<function>#<instr>: <SEV> <CODE>: <message>
//	    <instruction text>
//
// Call bag.Sort() first for a stable order.
func Pretty(w io.Writer, bag *Bag, opts PrettyOpts) error {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			paint(locColor, d.Location()),
			paint(severityColor(d.Severity), d.Severity.String()),
			d.Code.ID(),
			d.Message,
		); err != nil {
			return err
		}
		if d.Text != "" {
			if _, err := fmt.Fprintf(w, "    %s\n", paint(textColor, d.Text)); err != nil {
				return err
			}
		}
	}
	return nil
}

// DiagnosticJSON is the JSON form of one diagnostic.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
	Function string `json:"function,omitempty"`
	Instr    *int   `json:"instr,omitempty"`
	Text     string `json:"text,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON writes the bag as an indented JSON document.
func JSON(w io.Writer, bag *Bag) error {
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items)), Count: len(items)}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Source:   d.Source,
			Function: d.Function,
			Text:     d.Text,
		}
		if d.Instr != NoInstr {
			instr := d.Instr
			dj.Instr = &instr
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
