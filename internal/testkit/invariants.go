// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"gccbridge/internal/jimple"
)

// CheckBody runs the structural invariants of a lowered method body:
// 1) every local is declared once
// 2) every label is defined once
// 3) every goto, conditional or not, targets a defined label
// 4) every compiler temporary written or read is declared
func CheckBody(b *jimple.Builder, tempPrefix string) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	locals := make(map[string]struct{}, len(b.Decls()))
	for _, d := range b.Decls() {
		if _, dup := locals[d.Name]; dup {
			return fmt.Errorf("local %s declared twice", d.Name)
		}
		locals[d.Name] = struct{}{}
	}

	labels := make(map[string]struct{})
	for _, l := range b.Lines() {
		if l.Kind != jimple.LineLabel {
			continue
		}
		if _, dup := labels[l.Text]; dup {
			return fmt.Errorf("label %s defined twice", l.Text)
		}
		labels[l.Text] = struct{}{}
	}

	for i, l := range b.Lines() {
		if l.Kind != jimple.LineStatement {
			continue
		}
		if _, target, ok := strings.Cut(l.Text, "goto "); ok {
			if _, defined := labels[target]; !defined {
				return fmt.Errorf("line %d: goto undefined label %s", i, target)
			}
		}
		if tempPrefix == "" {
			continue
		}
		for _, tok := range strings.FieldsFunc(l.Text, isSeparator) {
			if strings.HasPrefix(tok, tempPrefix) {
				if _, declared := locals[tok]; !declared {
					return fmt.Errorf("line %d: temporary %s is not declared", i, tok)
				}
			}
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ',', '(', ')', '[', ']', '<', '>', ':':
		return true
	}
	return false
}
