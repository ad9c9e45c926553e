package jimple

import (
	"bufio"
	"fmt"
	"io"
)

// LineKind distinguishes the two kinds of body lines.
type LineKind uint8

const (
	LineStatement LineKind = iota + 1
	LineLabel
)

// Line is one entry of a method body.
type Line struct {
	Kind LineKind
	Text string
}

func (l Line) String() string {
	if l.Kind == LineLabel {
		return l.Text + ":"
	}
	return l.Text + ";"
}

// VarDecl declares one local of the method.
type VarDecl struct {
	Type string
	Name string
}

// Sink is the append-only surface lowering code writes through.
type Sink interface {
	AddStatement(stmt string)
	AddLabel(name string)
	AddVarDecl(typeName, name string)
}

// Builder accumulates the body of one method. It is never read back by the
// lowering code, only printed once the function is done.
type Builder struct {
	decls []VarDecl
	lines []Line
}

// NewBuilder returns an empty method body.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddStatement appends a statement; the trailing ';' is added when printing.
func (b *Builder) AddStatement(stmt string) {
	b.lines = append(b.lines, Line{Kind: LineStatement, Text: stmt})
}

// AddLabel appends a label definition.
func (b *Builder) AddLabel(name string) {
	b.lines = append(b.lines, Line{Kind: LineLabel, Text: name})
}

// AddVarDecl declares a local.
func (b *Builder) AddVarDecl(typeName, name string) {
	b.decls = append(b.decls, VarDecl{Type: typeName, Name: name})
}

// Len returns the number of body lines, labels included.
func (b *Builder) Len() int { return len(b.lines) }

// Lines returns the body. Do not modify the returned slice.
func (b *Builder) Lines() []Line { return b.lines }

// Decls returns the local declarations in declaration order.
func (b *Builder) Decls() []VarDecl { return b.decls }

// WriteMethod prints the body under the given method signature.
func (b *Builder) WriteMethod(w io.Writer, signature string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n{\n", signature)
	for _, d := range b.decls {
		fmt.Fprintf(bw, "    %s %s;\n", d.Type, d.Name)
	}
	if len(b.decls) > 0 && len(b.lines) > 0 {
		bw.WriteString("\n")
	}
	for _, l := range b.lines {
		if l.Kind == LineLabel {
			fmt.Fprintf(bw, "  %s\n", l)
		} else {
			fmt.Fprintf(bw, "    %s\n", l)
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// Pending buffers the output of one instruction so that a failed lowering
// leaves the method body untouched.
type Pending struct {
	decls []VarDecl
	lines []Line
}

// AddStatement implements Sink.
func (p *Pending) AddStatement(stmt string) {
	p.lines = append(p.lines, Line{Kind: LineStatement, Text: stmt})
}

// AddLabel implements Sink.
func (p *Pending) AddLabel(name string) {
	p.lines = append(p.lines, Line{Kind: LineLabel, Text: name})
}

// AddVarDecl implements Sink.
func (p *Pending) AddVarDecl(typeName, name string) {
	p.decls = append(p.decls, VarDecl{Type: typeName, Name: name})
}

// Len returns the number of buffered body lines.
func (p *Pending) Len() int { return len(p.lines) }

// CommitTo appends everything buffered to dst in order and empties p.
func (p *Pending) CommitTo(dst Sink) {
	for _, d := range p.decls {
		dst.AddVarDecl(d.Type, d.Name)
	}
	for _, l := range p.lines {
		if l.Kind == LineLabel {
			dst.AddLabel(l.Text)
		} else {
			dst.AddStatement(l.Text)
		}
	}
	p.Discard()
}

// Discard drops everything buffered.
func (p *Pending) Discard() {
	p.decls = p.decls[:0]
	p.lines = p.lines[:0]
}
