package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"psfmt/internal/config"
)

// fileSettings are the options that apply to one file.
type fileSettings struct {
	opts     config.Options
	resolved config.Resolved
	source   string   // config file the options came from, "" if none
	exclude  excluder // exclude patterns of that config file
}

// settingsResolver finds the config file for each directory and overlays
// the command-line options on top of it. Lookups are memoized per directory.
type settingsResolver struct {
	explicit string
	overlay  config.Options

	mu    sync.Mutex
	byDir map[string]*dirEntry
	files map[string]*dirEntry
}

type dirEntry struct {
	once     sync.Once
	settings fileSettings
	err      error
}

func newSettingsResolver(explicit string, overlay config.Options) *settingsResolver {
	return &settingsResolver{
		explicit: explicit,
		overlay:  overlay,
		byDir:    make(map[string]*dirEntry),
		files:    make(map[string]*dirEntry),
	}
}

// forFile returns the settings for the file at path.
func (r *settingsResolver) forFile(ctx context.Context, path string) (fileSettings, error) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return fileSettings{}, err
	}
	r.mu.Lock()
	e, ok := r.byDir[dir]
	if !ok {
		e = &dirEntry{}
		r.byDir[dir] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		cfgPath := r.explicit
		if cfgPath == "" {
			found, ok, derr := config.Discover(dir)
			if derr != nil {
				e.err = derr
				return
			}
			if !ok {
				e.settings = r.finish(config.Options{}, "")
				return
			}
			cfgPath = found
		}
		e.settings, e.err = r.fromFile(ctx, cfgPath)
	})
	return e.settings, e.err
}

// fromFile loads a config file once, however many directories share it.
func (r *settingsResolver) fromFile(ctx context.Context, path string) (fileSettings, error) {
	r.mu.Lock()
	e, ok := r.files[path]
	if !ok {
		e = &dirEntry{}
		r.files[path] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		opts, err := config.Load(path)
		if err != nil {
			e.err = fmt.Errorf("config: %w", err)
			return
		}
		if err := ValidateExcludes(opts.Exclude); err != nil {
			e.err = fmt.Errorf("config: %s: %w", path, err)
			return
		}
		zerolog.Ctx(ctx).Debug().Str("config", path).Msg("config loaded")
		e.settings = r.finish(opts, path)
	})
	return e.settings, e.err
}

func (r *settingsResolver) finish(fileOpts config.Options, source string) fileSettings {
	merged := config.Merge(fileOpts, r.overlay)
	s := fileSettings{opts: merged, resolved: config.Resolve(merged), source: source}
	if source != "" {
		s.exclude = excluder{base: filepath.Dir(source), patterns: fileOpts.Exclude}
	}
	return s
}
