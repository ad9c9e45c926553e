package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"gccbridge/internal/config"
	"gccbridge/internal/diag"
	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
	"gccbridge/internal/trace"
	"gccbridge/internal/translate"
)

// FunctionResult is the outcome of lowering one function.
type FunctionResult struct {
	Name    string
	Body    *jimple.Builder
	Lowered int  // instructions lowered before stopping
	Failed  bool // Body is incomplete and must not be emitted
	Cached  bool // Body came from the cache
}

// UnitResult holds the functions of a unit in source order.
type UnitResult struct {
	Source    string
	Functions []FunctionResult
	Bag       *diag.Bag
}

// InstrError attributes a lowering failure to an instruction.
type InstrError struct {
	Index int
	Instr gimple.Instruction
	Err   error
}

func (e *InstrError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Instr, e.Err)
}

func (e *InstrError) Unwrap() error { return e.Err }

// TranslateUnit lowers every function of u. Functions are independent and
// are lowered concurrently, each with its own FunctionContext; a failing
// function is reported in the bag and does not stop its siblings. The
// returned error is non-nil only when ctx is cancelled.
func TranslateUnit(ctx context.Context, u *gimple.Unit, cfg config.Config) (*UnitResult, error) {
	return TranslateUnitCached(ctx, u, cfg, nil)
}

// TranslateUnitCached is TranslateUnit with bodies looked up in and stored to
// cache. A nil cache disables caching.
func TranslateUnitCached(ctx context.Context, u *gimple.Unit, cfg config.Config, cache *Cache) (*UnitResult, error) {
	return TranslateUnitWith(ctx, u, cfg, Options{Cache: cache})
}

// Options are the optional collaborators of a unit translation.
type Options struct {
	Cache    *Cache       // nil disables caching
	Progress ProgressSink // nil drops progress events
}

// TranslateUnitWith is the general form of TranslateUnit.
func TranslateUnitWith(ctx context.Context, u *gimple.Unit, cfg config.Config, opts Options) (*UnitResult, error) {
	if u == nil {
		return nil, fmt.Errorf("nil unit")
	}
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "translate", trace.CurrentSpan(ctx))
	defer span.End(u.Source)
	ctx = trace.WithSpan(ctx, span)

	res := &UnitResult{
		Source:    u.Source,
		Functions: make([]FunctionResult, len(u.Functions)),
		Bag:       diag.NewBag(cfg.Translate.MaxDiagnostics),
	}
	for i := range u.Functions {
		sink.OnEvent(Event{Index: i, Function: u.Functions[i].Name, Status: StatusQueued})
	}

	jobs := max(1, cfg.Translate.Jobs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(1, len(u.Functions))))

	for i := range u.Functions {
		i := i
		g.Go(func() error {
			fn := &u.Functions[i]
			start := time.Now()
			sink.OnEvent(Event{Index: i, Function: fn.Name, Status: StatusWorking})
			fr, err := lowerCached(gctx, fn, cfg, opts.Cache)
			res.Functions[i] = fr

			done := Event{Index: i, Function: fn.Name, Status: StatusDone, Err: err, Elapsed: time.Since(start)}
			switch {
			case err != nil:
				done.Status = StatusError
			case fr.Cached:
				done.Status = StatusCached
			}
			sink.OnEvent(done)

			if err == nil {
				return nil
			}
			if ctxErr := gctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return err
			}
			res.Bag.Add(diagnosticFor(u.Source, fn, err))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	span.WithExtra("functions", strconv.Itoa(len(u.Functions))).
		WithExtra("diagnostics", strconv.Itoa(res.Bag.Len()))
	return res, nil
}

func lowerCached(ctx context.Context, fn *gimple.Function, cfg config.Config, cache *Cache) (FunctionResult, error) {
	if cache == nil {
		return TranslateFunction(ctx, fn, cfg)
	}
	tracer := trace.FromContext(ctx)
	key, err := FunctionKey(fn, cfg)
	if err != nil {
		trace.Point(tracer, trace.ScopeFunction, "cache.skip", err.Error())
		return TranslateFunction(ctx, fn, cfg)
	}
	body, ok, err := cache.Get(key)
	if err != nil {
		trace.Point(tracer, trace.ScopeFunction, "cache.error", err.Error())
	}
	if ok {
		trace.Point(tracer, trace.ScopeFunction, "cache.hit", fn.Name)
		return FunctionResult{Name: fn.Name, Body: body, Lowered: len(fn.Body), Cached: true}, nil
	}
	fr, err := TranslateFunction(ctx, fn, cfg)
	if err == nil {
		if putErr := cache.Put(key, fr.Body); putErr != nil {
			trace.Point(tracer, trace.ScopeFunction, "cache.error", putErr.Error())
		}
	}
	return fr, err
}

// TranslateFunction lowers fn into a fresh method body. It stops at the first
// failing instruction and marks the result Failed.
func TranslateFunction(ctx context.Context, fn *gimple.Function, cfg config.Config) (FunctionResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFunction, "fn:"+fn.Name, trace.CurrentSpan(ctx))

	fr := FunctionResult{Name: fn.Name, Body: jimple.NewBuilder(), Failed: true}
	fctx, err := translate.NewFunctionContext(fn.Name, fr.Body, translate.Options{
		LabelPrefix: cfg.Naming.LabelPrefix,
		TempPrefix:  cfg.Naming.TempPrefix,
		Runtime: translate.Runtime{
			MathClass:     cfg.Runtime.MathClass,
			BuiltinsClass: cfg.Runtime.BuiltinsClass,
		},
		Tracer: tracer,
	})
	if err != nil {
		span.End("setup failed")
		return fr, err
	}
	vars, err := translate.NewVarTable(fctx, fn.Locals)
	if err != nil {
		span.End("bad locals")
		return fr, err
	}

	tr := translate.NewAssignmentTranslator(fctx, vars)
	for i, instr := range fn.Body {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return fr, err
		}
		if err := tr.Translate(instr); err != nil {
			span.WithExtra("failed_at", strconv.Itoa(i)).End("failed")
			return fr, &InstrError{Index: i, Instr: instr, Err: err}
		}
		fr.Lowered++
	}
	fr.Failed = false
	span.WithExtra("lines", strconv.Itoa(fr.Body.Len())).End("")
	return fr, nil
}

func diagnosticFor(source string, fn *gimple.Function, err error) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     codeFor(err),
		Message:  err.Error(),
		Source:   source,
		Function: fn.Name,
		Instr:    diag.NoInstr,
	}
	var ie *InstrError
	if errors.As(err, &ie) {
		d.Instr = ie.Index
		d.Message = ie.Err.Error()
		d.Text = ie.Instr.String()
	}
	return d
}

func codeFor(err error) diag.Code {
	var ie *InstrError
	inBody := errors.As(err, &ie)
	switch {
	case errors.Is(err, translate.UnsupportedOperator):
		return diag.LowUnsupportedOperator
	case errors.Is(err, translate.TypeMismatch):
		return diag.LowTypeMismatch
	case errors.Is(err, translate.UnsupportedOperandType):
		if !inBody {
			return diag.InputBadLocalType
		}
		return diag.LowUnsupportedOperandType
	case errors.Is(err, translate.UnsupportedDestination):
		return diag.LowUnsupportedDestination
	case errors.Is(err, translate.UnresolvedOperand):
		if !inBody {
			return diag.InputDuplicateLocal
		}
		return diag.LowUnresolvedOperand
	case errors.Is(err, translate.ArityMismatch):
		return diag.LowArityMismatch
	case inBody:
		return diag.LowInternal
	}
	return diag.InputInvalid
}
