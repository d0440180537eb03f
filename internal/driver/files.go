package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// ErrNoSourceFiles is returned when the given paths hold no PowerShell files.
var ErrNoSourceFiles = errors.New("format: no source files found")

// SourceExts lists the extensions formatted by psfmt.
var SourceExts = []string{".ps1", ".psm1", ".psd1"}

// IsSourceFile reports whether path has a PowerShell extension.
func IsSourceFile(path string) bool {
	return slices.Contains(SourceExts, strings.ToLower(filepath.Ext(path)))
}

// excluder matches paths against glob patterns relative to a base directory.
type excluder struct {
	base     string
	patterns []string
}

// match reports whether path (or, for directories, the directory itself)
// matches one of the patterns. Patterns use '/' separators.
func (e excluder) match(path string) bool {
	if len(e.patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(e.base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range e.patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidateExcludes reports the first malformed glob pattern.
func ValidateExcludes(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return nil
}

// sourceFile is a collected path. Explicit files were named on the command
// line and bypass config excludes.
type sourceFile struct {
	path     string
	explicit bool
}

// collectSourceFiles expands directories into the PowerShell files below
// them. Hidden directories are skipped, and so are files and directories
// matching the exclude patterns (relative to the walked root). Files given
// explicitly are always kept. The result is sorted and free of duplicates.
func collectSourceFiles(ctx context.Context, paths, exclude []string) ([]sourceFile, error) {
	log := zerolog.Ctx(ctx)
	var files []sourceFile
	seen := make(map[string]int)
	addFile := func(path string, explicit bool) {
		path = filepath.Clean(path)
		if i, ok := seen[path]; ok {
			files[i].explicit = files[i].explicit || explicit
			return
		}
		seen[path] = len(files)
		files = append(files, sourceFile{path: path, explicit: explicit})
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if IsSourceFile(p) {
				addFile(p, true)
			}
			continue
		}

		ex := excluder{base: p, patterns: exclude}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (strings.HasPrefix(d.Name(), ".") || ex.match(path)) {
					log.Debug().Str("dir", path).Msg("skipping directory")
					return filepath.SkipDir
				}
				return nil
			}
			if !IsSourceFile(path) {
				return nil
			}
			if ex.match(path) {
				log.Debug().Str("path", path).Msg("excluded")
				return nil
			}
			addFile(path, false)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(files, func(a, b sourceFile) int { return strings.Compare(a.path, b.path) })
	return files, nil
}
