package driver

import (
	"bufio"
	"fmt"
	"io"

	"gccbridge/internal/jimple"
)

// DefaultClass wraps the methods when no output class is configured.
const DefaultClass = "GimpleUnit"

// MethodSignature is the declaration every lowered function is printed under.
func MethodSignature(name string) string {
	return "public static void " + jimple.ID(name) + "()"
}

// WriteClass prints the lowered functions as one Jimple class. Failed
// functions are left out; their diagnostics are in the bag.
func (r *UnitResult) WriteClass(w io.Writer, class string) error {
	if class == "" {
		class = DefaultClass
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "public class %s extends java.lang.Object\n{\n", class)
	first := true
	for i := range r.Functions {
		fr := &r.Functions[i]
		if fr.Failed || fr.Body == nil {
			continue
		}
		if !first {
			bw.WriteString("\n")
		}
		first = false
		if err := fr.Body.WriteMethod(bw, MethodSignature(fr.Name)); err != nil {
			return fmt.Errorf("write %s: %w", fr.Name, err)
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// Emitted counts the functions WriteClass prints.
func (r *UnitResult) Emitted() int {
	n := 0
	for i := range r.Functions {
		if !r.Functions[i].Failed {
			n++
		}
	}
	return n
}
