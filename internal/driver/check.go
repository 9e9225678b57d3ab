// Package driver runs the verifier over a whole program: discovery,
// parallel loading, the declaration pass, repeated resolution and
// conformance passes, and the disk cache.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"jet/internal/ast"
	"jet/internal/binding"
	"jet/internal/diag"
	"jet/internal/observ"
	"jet/internal/options"
	"jet/internal/persist"
	"jet/internal/sema"
	"jet/internal/source"
	"jet/internal/symbols"
	"jet/internal/trace"
	"jet/internal/unit"
)

// Request describes one check run.
type Request struct {
	// Root is a directory or a single .jetd file.
	Root    string
	Options *options.CompilerOptions
	// Files overrides discovery when set.
	Files    []string
	Progress ProgressSink
	Cache    *DiskCache
	Timer    *observ.Timer
}

// UnitResult is the outcome for one compilation unit.
type UnitResult struct {
	Unit    *unit.CompilationUnit
	Program ast.ProgramID
	// Diagnostics are sorted and capped by MaxDiagnostics across the run.
	Diagnostics []diag.Diagnostic
	Bindings    int
}

type Result struct {
	FileSet *source.FileSet
	Builder *ast.Builder
	Store   *binding.Store
	// Checker is nil when the result came from the cache.
	Checker   *sema.Checker
	Units     []UnitResult
	Passes    int
	Converged bool
	Cached    bool
	Digest    string
	// Truncated counts diagnostics dropped by MaxDiagnostics.
	Truncated int
}

// Invalidated reports whether any unit recorded an error.
func (r *Result) Invalidated() bool {
	for _, u := range r.Units {
		if u.Unit.Invalidated() {
			return true
		}
	}
	return false
}

// Counts sums errors and warnings over all units.
func (r *Result) Counts() (errs, warns uint32) {
	for _, u := range r.Units {
		errs += u.Unit.ErrorCount()
		warns += u.Unit.WarningCount()
	}
	return errs, warns
}

// Check verifies the program described by req.
func Check(ctx context.Context, req Request) (*Result, error) {
	opts := req.Options
	if opts == nil {
		opts = options.Default(req.Root)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	timer := req.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer root.End("")
	ctx = trace.WithSpan(ctx, root.ID())

	files := req.Files
	if len(files) == 0 {
		var err error
		if files, err = Discover(req.Root, opts); err != nil {
			return nil, err
		}
	}

	res := &Result{
		FileSet: source.NewFileSetWithBase(req.Root),
		Builder: ast.NewBuilder(ast.Hints{Programs: uint(len(files))}),
	}
	res.Store = binding.NewStore(res.Builder)

	phase := timer.Begin("load")
	units := loadFiles(res.FileSet, files, opts, req.Progress)
	res.Digest = programDigest(opts, units)
	timer.End(phase, strconv.Itoa(len(units))+" units")

	if snap, ok, err := req.Cache.Get(res.Digest); err != nil {
		trace.Point(tracer, trace.ScopeDriver, "cache", err.Error(), root.ID())
	} else if ok && len(snap.Units) == len(units) {
		if err := res.restore(ctx, units, snap, opts, req.Progress); err != nil {
			return nil, err
		}
		return res, nil
	}

	phase = timer.Begin("decode")
	decoded, err := decodeUnits(ctx, units, opts.Workers(), req.Progress)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}
	progs := buildPrograms(res.Builder, decoded)

	checker := sema.NewChecker(symbols.NewHost(), res.Store, res.Builder)
	res.Checker = checker
	for i, u := range units {
		checker.Add(u, progs[i])
	}

	phase = timer.Begin("declare")
	declSpan := trace.Begin(tracer, trace.ScopePass, "declare", root.ID())
	emit(req.Progress, Event{Stage: StageDeclare, Status: StatusWorking})
	checker.DeclareAll()
	declSpan.End("")
	timer.End(phase, "")

	res.Converged = runPasses(ctx, checker, opts.MaxPasses, req.Progress, timer, res)
	if !res.Converged {
		checker.FailPending()
	}

	res.collect(units, progs, opts, req.Progress)
	root.WithExtra("passes", strconv.Itoa(res.Passes)).WithExtra("units", strconv.Itoa(len(units)))

	if req.Cache != nil {
		snap := &persist.ProgramSnapshot{
			Passes:    res.Passes,
			Converged: res.Converged,
			Units:     make([]persist.UnitSnapshot, 0, len(units)),
		}
		for i, u := range units {
			snap.Units = append(snap.Units, persist.CaptureUnit(checker, u, progs[i]))
		}
		if err := req.Cache.Put(res.Digest, snap); err != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache", err.Error(), root.ID())
		}
	}
	return res, nil
}

// runPasses repeats resolution and conformance until nothing is pending.
// It gives up when a pass settles nothing or the pass budget runs out.
func runPasses(ctx context.Context, c *sema.Checker, maxPasses int, sink ProgressSink, timer *observ.Timer, res *Result) bool {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	for c.Pending() > 0 {
		if res.Passes >= maxPasses || ctx.Err() != nil {
			return false
		}
		res.Passes++
		name := "pass " + strconv.Itoa(res.Passes)
		phase := timer.BeginIn("verify", name)
		span := trace.Begin(tracer, trace.ScopePass, name, parent)
		start := time.Now()
		emit(sink, Event{Stage: StageVerify, Status: StatusWorking, Pass: res.Passes})

		c.Trace(tracer, span.ID())
		progress := c.Pass()
		pending := c.Pending()

		detail := fmt.Sprintf("settled %d, pending %d", progress, pending)
		span.End(detail)
		timer.End(phase, detail)
		emit(sink, Event{Stage: StageVerify, Status: StatusDone, Pass: res.Passes, Pending: pending, Elapsed: time.Since(start)})
		if progress == 0 && pending > 0 {
			return false
		}
	}
	return true
}

func (res *Result) collect(units []*unit.CompilationUnit, progs []ast.ProgramID, opts *options.CompilerOptions, sink ProgressSink) {
	budget := opts.MaxDiagnostics
	res.Units = make([]UnitResult, 0, len(units))
	for i, u := range units {
		u.SortDiagnostics()
		diags := u.Diagnostics()
		if opts.MaxDiagnostics > 0 {
			keep := min(len(diags), budget)
			res.Truncated += len(diags) - keep
			diags = diags[:keep]
			budget -= keep
		}
		res.Units = append(res.Units, UnitResult{
			Unit:        u,
			Program:     progs[i],
			Diagnostics: diags,
			Bindings:    res.Store.Len(u.FileID()),
		})
		status := StatusDone
		var err error
		if u.Invalidated() {
			status = StatusError
			err = errors.New("unit has errors")
		}
		emit(sink, Event{
			File:     u.Path(),
			Stage:    StageVerify,
			Status:   status,
			Errors:   u.ErrorCount(),
			Warnings: u.WarningCount(),
			Err:      err,
		})
	}
}

// restore fills the result from a cached snapshot without re-verifying.
// The snapshots are decoded again into res.Builder so that node handles
// match the cached bindings; the decode writes into throwaway units because
// the cached ledgers already hold its diagnostics and comments.
func (res *Result) restore(ctx context.Context, units []*unit.CompilationUnit, snap *persist.ProgramSnapshot, opts *options.CompilerOptions, sink ProgressSink) error {
	scratch := make([]*unit.CompilationUnit, len(units))
	for i, u := range units {
		scratch[i] = unit.New(u.File(), opts)
	}
	decoded, err := decodeUnits(ctx, scratch, opts.Workers(), sink)
	if err != nil {
		return err
	}
	progs := buildPrograms(res.Builder, decoded)

	res.Cached = true
	res.Passes = snap.Passes
	res.Converged = snap.Converged
	for i, u := range units {
		us := &snap.Units[i]
		if u.MarkTokenized() {
			for _, c := range us.Comments {
				u.AddComment(c)
			}
		}
		// ошибки загрузки уже в журнале
		if !u.Invalidated() {
			for _, d := range us.Diagnostics {
				u.AddDiagnostic(d)
			}
		}
		bindings := us.Bindings
		bindings.File = u.FileID()
		res.Store.Restore(bindings)
	}
	res.collect(units, progs, opts, sink)
	return nil
}
