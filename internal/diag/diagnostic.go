package diag

import "fmt"

// NoInstr marks a diagnostic that is not tied to one instruction.
const NoInstr = -1

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Source   string // unit file
	Function string
	Instr    int // index in the function body, NoInstr if none
	Text     string
}

// Location renders source:function#instr, omitting what is unknown.
func (d Diagnostic) Location() string {
	loc := d.Source
	if d.Function != "" {
		if loc != "" {
			loc += ":"
		}
		loc += d.Function
	}
	if d.Instr != NoInstr {
		loc += fmt.Sprintf("#%d", d.Instr)
	}
	return loc
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s %s: %s", d.Location(), d.Severity, d.Code.ID(), d.Message)
	if d.Text != "" {
		s += "\n    " + d.Text
	}
	return s
}
