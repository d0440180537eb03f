package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"psfmt/internal/config"
	"psfmt/internal/format"
	"psfmt/internal/parser"
	"psfmt/internal/pipeline"
	"psfmt/internal/source"
	"psfmt/internal/trace"
)

// FormatOptions configures a formatting run.
type FormatOptions struct {
	// Check reports files that would change without writing them.
	Check bool
	// Diff keeps original and formatted bytes for changed files without writing them.
	Diff bool
	// Stdout returns formatted content in the results without touching files.
	Stdout bool
	// Options overlays every config file (command-line flags).
	Options config.Options
	// ConfigPath forces one config file instead of per-directory discovery.
	ConfigPath string
	// Exclude holds glob patterns relative to each walked directory.
	Exclude []string
	Jobs    int
	Cache   *DiskCache
	// Progress receives per-file events; may be nil.
	Progress pipeline.ProgressSink
	// Timings accumulates per-stage durations; may be nil.
	Timings *pipeline.Timings
}

func (o FormatOptions) readOnly() bool { return o.Check || o.Diff || o.Stdout }

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path    string
	Changed bool
	Cached  bool
	Err     error
	// Config is the config file applied to the file, "" when none was found.
	Config string
	// Original is kept in diff mode.
	Original []byte
	// Formatted is kept in diff and stdout modes.
	Formatted []byte
}

// FormatPaths formats the given files and directories (recursively collecting
// PowerShell sources). Results come back in path order. Per-file failures are
// reported in FormatResult.Err; the returned error is for failures of the
// whole run (bad arguments, cancellation).
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateExcludes(opts.Exclude); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)
	ctx, runSpan := trace.StartSpan(ctx, trace.ScopeRun, "format_paths")
	defer runSpan.End("")

	collectStart := time.Now()
	files, err := collectSourceFiles(ctx, paths, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}
	log.Debug().Int("files", len(files)).Dur("elapsed", time.Since(collectStart)).Msg("sources collected")

	resolver := newSettingsResolver(opts.ConfigPath, opts.Options)
	for _, f := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: pipeline.StageRead, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FormatResult, len(files))
	keep := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, ok := formatOne(gctx, f, resolver, opts)
			results[i], keep[i] = res, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(results, keep), err
	}
	if err := ctx.Err(); err != nil {
		return compact(results, keep), err
	}
	runSpan.WithExtra("files", fmt.Sprint(len(files)))
	return compact(results, keep), nil
}

func compact(results []FormatResult, keep []bool) []FormatResult {
	out := results[:0]
	for i, r := range results {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// formatOne runs one file through read, parse, format and write. It returns
// false when the file is excluded by its config file.
func formatOne(ctx context.Context, f sourceFile, resolver *settingsResolver, opts FormatOptions) (FormatResult, bool) {
	log := zerolog.Ctx(ctx).With().Str("path", f.path).Logger()
	tracer := trace.FromContext(ctx)
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file")
	span.WithExtra("path", f.path)
	res := FormatResult{Path: f.path}
	started := time.Now()

	fail := func(stage pipeline.Stage, err error) (FormatResult, bool) {
		res.Err = err
		span.End("error")
		log.Debug().Err(err).Str("stage", string(stage)).Msg("format failed")
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: stage, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(started)})
		return res, true
	}
	stage := func(st pipeline.Stage) func() {
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: st, Status: pipeline.StatusWorking})
		s := trace.Begin(tracer, trace.ScopePass, string(st), span.ID())
		t0 := time.Now()
		return func() {
			opts.Timings.Add(st, time.Since(t0))
			s.End("")
		}
	}

	// read
	done := stage(pipeline.StageRead)
	settings, err := resolver.forFile(ctx, f.path)
	if err != nil {
		done()
		return fail(pipeline.StageRead, err)
	}
	res.Config = settings.source
	if !f.explicit && settings.exclude.match(f.path) {
		done()
		span.End("excluded")
		log.Debug().Str("config", settings.source).Msg("excluded by config")
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: pipeline.StageRead, Status: pipeline.StatusDone})
		return res, false
	}
	// #nosec G304 -- path comes from the user's arguments
	raw, err := os.ReadFile(f.path)
	done()
	if err != nil {
		return fail(pipeline.StageRead, err)
	}

	key := CacheKey(raw, settings.resolved)
	if opts.Cache.IsFormatted(key) {
		res.Cached = true
		trace.Point(tracer, trace.ScopePass, "cache_hit", f.path, span.ID())
		if opts.Stdout {
			res.Formatted = raw
		}
		span.End("cached")
		log.Debug().Msg("cache hit")
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: pipeline.StageFormat, Status: pipeline.StatusCached, Elapsed: time.Since(started)})
		return res, true
	}

	// parse
	done = stage(pipeline.StageParse)
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddBytes(f.path, raw))
	script, _ := parser.ParseFile(sf)
	done()

	// format
	done = stage(pipeline.StageFormat)
	formatted := format.FormatParsed(script, sf.Flags, settings.resolved)
	done()

	res.Changed = !bytes.Equal(raw, formatted)
	if opts.Stdout {
		res.Formatted = formatted
	}
	if opts.Diff && res.Changed {
		res.Original = raw
		res.Formatted = formatted
	}

	if !res.Changed || !opts.readOnly() {
		if res.Changed {
			done = stage(pipeline.StageWrite)
			err := writePreservingMode(f.path, formatted)
			done()
			if err != nil {
				return fail(pipeline.StageWrite, err)
			}
			key = CacheKey(formatted, settings.resolved)
		}
		if err := opts.Cache.MarkFormatted(key, f.path); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}

	status := pipeline.StatusDone
	if res.Changed && opts.readOnly() {
		status = pipeline.StatusChanged
	}
	span.End(string(status))
	log.Debug().Bool("changed", res.Changed).Msg("formatted")
	pipeline.Emit(opts.Progress, pipeline.Event{File: f.path, Stage: pipeline.StageFormat, Status: status, Elapsed: time.Since(started)})
	return res, true
}

func writePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteFile formats the input file and writes the result to output. Config
// discovery starts from the input's directory unless opts.ConfigPath is set.
func WriteFile(ctx context.Context, input, output string, opts FormatOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg, _, err := SettingsFor(ctx, input, opts)
	if err != nil {
		return err
	}
	// #nosec G304 -- path is provided by the user
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	out := FormatBytes(input, raw, cfg)
	zerolog.Ctx(ctx).Debug().Str("input", input).Str("output", output).Msg("write")
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

// FormatBytes formats raw file bytes (BOM and line endings preserved).
func FormatBytes(path string, raw []byte, cfg config.Resolved) []byte {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddBytes(path, raw))
	script, _ := parser.ParseFile(sf)
	return format.FormatParsed(script, sf.Flags, cfg)
}

// SettingsFor resolves the settings that apply to path: its config file (or
// opts.ConfigPath) overlaid with opts.Options. It also returns the config
// file used, "" when none was found. path need not exist.
func SettingsFor(ctx context.Context, path string, opts FormatOptions) (config.Resolved, string, error) {
	s, err := newSettingsResolver(opts.ConfigPath, opts.Options).forFile(ctx, path)
	if err != nil {
		return config.Resolved{}, "", err
	}
	return s.resolved, s.source, nil
}
