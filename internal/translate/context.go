package translate

import (
	"fmt"

	"gccbridge/internal/jimple"
	"gccbridge/internal/trace"
)

// Runtime names the classes that provide the numeric support routines.
type Runtime struct {
	MathClass     string // abs(double), abs(int), max(T, T)
	BuiltinsClass string // unordered(double, double)
}

// DefaultRuntime is the JVM standard library plus the gcc-bridge runtime.
var DefaultRuntime = Runtime{
	MathClass:     "java.lang.Math",
	BuiltinsClass: "org.renjin.gcc.runtime.Builtins",
}

// Options configure a FunctionContext.
type Options struct {
	LabelPrefix string
	TempPrefix  string
	LabelStart  int
	Runtime     Runtime
	Tracer      trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.LabelPrefix == "" {
		o.LabelPrefix = "label"
	}
	if o.TempPrefix == "" {
		o.TempPrefix = "$t"
	}
	if o.Runtime.MathClass == "" {
		o.Runtime.MathClass = DefaultRuntime.MathClass
	}
	if o.Runtime.BuiltinsClass == "" {
		o.Runtime.BuiltinsClass = DefaultRuntime.BuiltinsClass
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	return o
}

// FunctionContext owns the mutable state of one function's translation: the
// method builder, the label and temp counters and the set of local names.
// It is used by exactly one goroutine.
type FunctionContext struct {
	name    string
	builder *jimple.Builder
	pending jimple.Pending
	inInstr bool

	labels *jimple.Counter
	temps  *jimple.Counter
	locals map[string]struct{}

	runtime Runtime
	tracer  trace.Tracer
}

// NewFunctionContext prepares the translation of the function called name,
// writing into b.
func NewFunctionContext(name string, b *jimple.Builder, opts Options) (*FunctionContext, error) {
	if b == nil {
		return nil, fmt.Errorf("function %s: nil builder", name)
	}
	opts = opts.withDefaults()
	labels, err := jimple.NewCounter(opts.LabelPrefix, opts.LabelStart)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	temps, err := jimple.NewCounter(opts.TempPrefix, 0)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	return &FunctionContext{
		name:    name,
		builder: b,
		labels:  labels,
		temps:   temps,
		locals:  make(map[string]struct{}),
		runtime: opts.Runtime,
		tracer:  opts.Tracer,
	}, nil
}

// Name returns the source name of the function.
func (ctx *FunctionContext) Name() string { return ctx.name }

// Runtime returns the support classes calls are emitted against.
func (ctx *FunctionContext) Runtime() Runtime { return ctx.runtime }

// Builder returns the sink lowering code appends to: the instruction's
// pending buffer while an instruction is being translated, the method body
// otherwise.
func (ctx *FunctionContext) Builder() jimple.Sink {
	if ctx.inInstr {
		return &ctx.pending
	}
	return ctx.builder
}

// NewLabel allocates a label name unique within the function.
func (ctx *FunctionContext) NewLabel() string {
	return ctx.labels.Next()
}

// DeclareLocal registers a local for the source name and returns its Jimple
// identifier, which is unique within the function.
func (ctx *FunctionContext) DeclareLocal(typeName, sourceName string) string {
	id := jimple.ID(sourceName)
	if _, taken := ctx.locals[id]; taken {
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s_%d", id, i)
			if _, taken := ctx.locals[candidate]; !taken {
				id = candidate
				break
			}
		}
	}
	ctx.locals[id] = struct{}{}
	ctx.Builder().AddVarDecl(typeName, id)
	return id
}

// NewTemp declares a fresh compiler temporary of the given Jimple type.
func (ctx *FunctionContext) NewTemp(typeName string) string {
	for {
		name := ctx.temps.Next()
		if _, taken := ctx.locals[name]; taken {
			continue
		}
		ctx.locals[name] = struct{}{}
		ctx.Builder().AddVarDecl(typeName, name)
		return name
	}
}

// beginInstr routes output into the pending buffer.
func (ctx *FunctionContext) beginInstr() {
	ctx.pending.Discard()
	ctx.inInstr = true
}

// endInstr commits the pending buffer when ok, otherwise drops it. Temps
// declared by a dropped instruction keep their names reserved.
func (ctx *FunctionContext) endInstr(ok bool) {
	ctx.inInstr = false
	if ok {
		ctx.pending.CommitTo(ctx.builder)
		return
	}
	ctx.pending.Discard()
}
