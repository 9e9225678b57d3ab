package driver

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"jet/internal/ast"
	"jet/internal/decl"
	"jet/internal/diag"
	"jet/internal/options"
	"jet/internal/source"
	"jet/internal/trace"
	"jet/internal/unit"
)

// loadFiles reads every file into fs in order. A file that cannot be read
// still gets an empty unit carrying IOLoadFileError.
func loadFiles(fileSet *source.FileSet, files []string, opts *options.CompilerOptions, sink ProgressSink) []*unit.CompilationUnit {
	units := make([]*unit.CompilationUnit, 0, len(files))
	for _, path := range files {
		emit(sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			id = fileSet.AddUnreadable(path)
			u := unit.New(fileSet.Get(id), opts)
			diag.ReportError(u.Reporter(), diag.IOLoadFileError, source.Span{File: id},
				fmt.Sprintf("failed to load %s: %v", path, err)).Emit()
			units = append(units, u)
			continue
		}
		units = append(units, unit.New(fileSet.Get(id), opts))
	}
	return units
}

// decodeUnits decodes snapshots in parallel. Every goroutine owns exactly
// one unit; node allocation happens afterwards on the caller's goroutine.
func decodeUnits(ctx context.Context, units []*unit.CompilationUnit, jobs int, sink ProgressSink) ([]*decl.Decoded, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	decoded := make([]*decl.Decoded, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(units))))
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			span := trace.BeginUnit(tracer, u.Path(), "decode", parent)
			emit(sink, Event{File: u.Path(), Stage: StageLoad, Status: StatusWorking})
			decoded[i] = decl.Decode(u)
			span.End("")
			emit(sink, Event{File: u.Path(), Stage: StageLoad, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decoded, nil
}

func buildPrograms(b *ast.Builder, decoded []*decl.Decoded) []ast.ProgramID {
	progs := make([]ast.ProgramID, len(decoded))
	for i, d := range decoded {
		progs[i] = d.Build(b)
	}
	return progs
}
