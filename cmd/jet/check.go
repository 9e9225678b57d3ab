package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jet/internal/diag"
	"jet/internal/diagfmt"
	"jet/internal/driver"
	"jet/internal/observ"
	"jet/internal/options"
	"jet/internal/prof"
	"jet/internal/trace"
)

type checkFlags struct {
	format           string
	jobs             int
	maxPasses        int
	maxDiagnostics   int
	outputDir        string
	warningsAsErrors bool
	withNotes        bool
	fullPath         bool
	diskCache        bool
	ui               progressUI
	watch            bool
	profile          prof.Config
	trace            traceFlags
}

func newCheckCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] [file.jetd|directory]",
		Short: "Verify declaration snapshots",
		Long:  `Verify a declaration snapshot or every *.jetd file under a directory. Settings come from the nearest jet.toml; flags override them.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(cmd, path, &f)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "max parallel loaders (0=auto)")
	cmd.Flags().IntVar(&f.maxPasses, "max-passes", 0, "max verification passes (0=manifest or default)")
	cmd.Flags().IntVar(&f.maxDiagnostics, "max-diagnostics", -1, "maximum number of diagnostics to show (-1=manifest or default, 0=unlimited)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory for output file references in metadata")
	cmd.Flags().BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().BoolVar(&f.withNotes, "with-notes", true, "include diagnostic notes in output")
	cmd.Flags().BoolVar(&f.fullPath, "fullpath", false, "emit absolute file paths in output")
	cmd.Flags().BoolVar(&f.diskCache, "disk-cache", false, "reuse results of unchanged programs from the user cache directory")
	cmd.Flags().Var(&f.ui, "ui", "progress UI mode (auto|on|off)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "re-run when snapshots change")
	f.trace.register(cmd)
	cmd.Flags().StringVar(&f.profile.CPU, "cpu-profile", "", "write a CPU profile to the file")
	cmd.Flags().StringVar(&f.profile.Mem, "mem-profile", "", "write a heap profile to the file")
	cmd.Flags().StringVar(&f.profile.Trace, "runtime-trace", "", "write a Go runtime trace to the file")
	return cmd
}

// resolveOptions loads the nearest manifest and applies flag overrides.
func resolveOptions(path string, f *checkFlags) (*options.CompilerOptions, error) {
	start := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		start = filepath.Dir(path)
	}
	m, found, err := options.LoadManifest(start)
	if err != nil {
		return nil, err
	}
	opts := options.Default(start)
	if found {
		if opts, err = m.Options(); err != nil {
			return nil, err
		}
	}
	if f.jobs != 0 {
		opts.Jobs = f.jobs
	}
	if f.maxPasses != 0 {
		opts.MaxPasses = f.maxPasses
	}
	if f.maxDiagnostics >= 0 {
		opts.MaxDiagnostics = f.maxDiagnostics
	}
	if f.outputDir != "" {
		opts.OutputDirectory = f.outputDir
	}
	return opts, opts.Validate()
}

func runCheck(cmd *cobra.Command, path string, f *checkFlags) error {
	switch f.format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", f.format)
	}
	if err := f.ui.conflict(f.format, f.watch); err != nil {
		return err
	}
	withUI := f.ui.enabled(f.format, f.watch, isTerminal(os.Stderr))
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cleanup, ring, err := setupTracing(cmd, f.trace)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(ring)

	session, err := prof.Start(f.profile)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	defer func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}()

	opts, err := resolveOptions(path, f)
	if err != nil {
		return err
	}
	var cache *driver.DiskCache
	if f.diskCache {
		if cache, err = driver.OpenDiskCache("jet"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	once := func(ctx context.Context) (bool, error) {
		timer := observ.NewTimer()
		req := driver.Request{Root: path, Options: opts, Cache: cache, Timer: timer}
		var (
			res *driver.Result
			err error
		)
		if withUI {
			files, derr := driver.Discover(path, opts)
			if derr != nil {
				return false, reportNoSources(cmd, derr)
			}
			req.Files = files
			res, err = runCheckWithUI(ctx, "jet check", req)
		} else {
			res, err = driver.Check(ctx, req)
		}
		if err != nil {
			return false, reportNoSources(cmd, err)
		}
		if err := renderResult(cmd, res, f); err != nil {
			return false, err
		}
		if showTimings {
			printTimings(cmd.ErrOrStderr(), timer, f.format)
		}
		errs, warns := res.Counts()
		failed := errs > 0 || (f.warningsAsErrors && warns > 0)
		if failed && ring != nil && ring.Level() == trace.LevelError {
			_ = ring.DumpUnits(cmd.ErrOrStderr(), trace.FormatText, invalidatedPaths(res))
		}
		return failed, nil
	}

	if !f.watch {
		failed, err := once(cmd.Context())
		if err != nil {
			return err
		}
		if failed {
			return errCheckFailed
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if _, err := once(ctx); err != nil && !errors.Is(err, errCheckFailed) {
		return err
	}
	root := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		root = filepath.Dir(path)
	}
	w := &driver.Watcher{
		Root:    root,
		Options: opts,
		OnError: func(err error) { fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err) },
	}
	return w.Run(ctx, func(changed []string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n== changed: %s ==\n", strings.Join(changed, ", "))
		if _, err := once(ctx); err != nil && !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
}

// reportNoSources prints a missing-sources error the way diagnostics look.
func reportNoSources(cmd *cobra.Command, err error) error {
	if errors.Is(err, driver.ErrNoSources) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", diag.ProjNoSources.ID(), err)
		return errCheckFailed
	}
	return err
}

func renderResult(cmd *cobra.Command, res *driver.Result, f *checkFlags) error {
	out := cmd.OutOrStdout()
	var diags []diag.Diagnostic
	for _, u := range res.Units {
		diags = append(diags, u.Diagnostics...)
	}
	pathMode := diagfmt.PathModeRelative
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch f.format {
	case "json":
		return diagfmt.JSON(out, diags, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     f.withNotes,
		})
	case "short":
		diagfmt.Short(out, diags, res.FileSet, pathMode)
	default:
		diagfmt.Pretty(out, diags, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: f.withNotes,
		})
		printSummary(out, res)
	}
	return nil
}

// printTimings writes the phase table, or the JSON report alongside
// --format json.
func printTimings(w io.Writer, timer *observ.Timer, format string) {
	if format != "json" {
		fmt.Fprint(w, timer.Summary())
		return
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(timer.Report())
}

func printSummary(out io.Writer, res *driver.Result) {
	errs, warns := res.Counts()
	status := "ok"
	if errs > 0 {
		status = "failed"
	}
	fmt.Fprintf(out, "%s: %d units, %d errors, %d warnings", status, len(res.Units), errs, warns)
	if res.Truncated > 0 {
		fmt.Fprintf(out, " (%d diagnostics not shown)", res.Truncated)
	}
	if res.Cached {
		fmt.Fprint(out, " [cached]")
	} else {
		fmt.Fprintf(out, " in %d passes", res.Passes)
	}
	fmt.Fprintln(out)
}

// invalidatedPaths lists the units that carry errors; a warnings-only
// failure yields an empty list and the dump keeps driver events only.
func invalidatedPaths(res *driver.Result) []string {
	paths := []string{}
	for _, ur := range res.Units {
		if ur.Unit.Invalidated() {
			paths = append(paths, ur.Unit.Path())
		}
	}
	return paths
}
