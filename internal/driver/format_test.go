package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"psfmt/internal/config"
	"psfmt/internal/pipeline"
	"psfmt/internal/trace"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFormatPathsRewritesFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ps1":  "$x=1\n",
		"b.psm1": "$y = 2\n",
		"c.txt":  "$z=3\n",
	})

	results, err := FormatPaths(context.Background(), []string{root}, FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, filepath.Join(root, "a.ps1"), results[0].Path)
	require.True(t, results[0].Changed)
	require.NoError(t, results[0].Err)
	require.False(t, results[1].Changed)

	require.Equal(t, "$x = 1\n", readFile(t, filepath.Join(root, "a.ps1")))
	require.Equal(t, "$z=3\n", readFile(t, filepath.Join(root, "c.txt")))
}

func TestFormatPathsReadOnlyModes(t *testing.T) {
	root := writeTree(t, map[string]string{"a.ps1": "$x=1\n"})
	path := filepath.Join(root, "a.ps1")

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Check: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Changed)
	require.Nil(t, results[0].Formatted)

	results, err = FormatPaths(context.Background(), []string{path}, FormatOptions{Stdout: true})
	require.NoError(t, err)
	require.Equal(t, "$x = 1\n", string(results[0].Formatted))

	results, err = FormatPaths(context.Background(), []string{path}, FormatOptions{Diff: true})
	require.NoError(t, err)
	require.Equal(t, "$x=1\n", string(results[0].Original))
	require.Equal(t, "$x = 1\n", string(results[0].Formatted))

	require.Equal(t, "$x=1\n", readFile(t, path), "read-only modes must not write")
}

func TestFormatPathsPreservesBOMAndCRLF(t *testing.T) {
	root := writeTree(t, map[string]string{"a.ps1": "\xEF\xBB\xBF$x=1\r\n$y=2\r\n"})
	_, err := FormatPaths(context.Background(), []string{root}, FormatOptions{})
	require.NoError(t, err)
	require.Equal(t, "\xEF\xBB\xBF$x = 1\r\n$y = 2\r\n", readFile(t, filepath.Join(root, "a.ps1")))
}

func TestFormatPathsSkipsHiddenAndExcluded(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ps1":         "a\n",
		".git/hook.ps1": "a\n",
		"gen/out.ps1":   "a\n",
		"lib/keep.ps1":  "a\n",
	})

	results, err := FormatPaths(context.Background(), []string{root}, FormatOptions{Check: true, Exclude: []string{"gen/**"}})
	require.NoError(t, err)
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	require.Equal(t, []string{
		filepath.Join(root, "a.ps1"),
		filepath.Join(root, "lib", "keep.ps1"),
	}, paths)

	_, err = FormatPaths(context.Background(), []string{root}, FormatOptions{Exclude: []string{"[bad"}})
	require.Error(t, err)
}

func TestFormatPathsPerDirectoryConfig(t *testing.T) {
	src := "if ($a) {\n1\n}\n"
	root := writeTree(t, map[string]string{
		".psfmt.toml":      "indentSize = 2\nexclude = [\"skip/**\"]\n",
		"a.ps1":            src,
		"wide/.psfmt.yaml": "indentSize: 4\n",
		"wide/b.ps1":       src,
		"skip/c.ps1":       src,
	})

	results, err := FormatPaths(context.Background(), []string{root}, FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, filepath.Join(root, ".psfmt.toml"), results[0].Config)
	require.Equal(t, filepath.Join(root, "wide", ".psfmt.yaml"), results[1].Config)

	require.Equal(t, "if ($a) {\n  1\n}\n", readFile(t, filepath.Join(root, "a.ps1")))
	require.Equal(t, "if ($a) {\n    1\n}\n", readFile(t, filepath.Join(root, "wide", "b.ps1")))
	require.Equal(t, src, readFile(t, filepath.Join(root, "skip", "c.ps1")))

	// явно указанный файл форматируется несмотря на exclude
	explicit := filepath.Join(root, "skip", "c.ps1")
	results, err = FormatPaths(context.Background(), []string{explicit}, FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Changed)
}

func TestFormatPathsFlagsOverlayConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		".psfmt.toml": "indentSize = 4\n",
		"a.ps1":       "if ($a) {\n1\n}\n",
	})
	opts := FormatOptions{Options: config.Options{IndentStyle: config.Ptr("tabs")}}
	_, err := FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.Equal(t, "if ($a) {\n\t1\n}\n", readFile(t, filepath.Join(root, "a.ps1")))
}

func TestFormatPathsBadConfigIsPerFileError(t *testing.T) {
	root := writeTree(t, map[string]string{
		".psfmt.toml": "indentSize = \n",
		"a.ps1":       "a\n",
	})
	results, err := FormatPaths(context.Background(), []string{root}, FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
}

func TestFormatPathsUsesCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	root := writeTree(t, map[string]string{"a.ps1": "$x=1\n"})
	opts := FormatOptions{Cache: cache}

	results, err := FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.True(t, results[0].Changed)
	require.False(t, results[0].Cached)

	results, err = FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.True(t, results[0].Cached)
	require.False(t, results[0].Changed)

	// другие настройки дают другой ключ
	opts.Options = config.Options{IndentSize: config.Ptr(8)}
	results, err = FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.False(t, results[0].Cached)
}

func TestFormatPathsErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"notes.txt": "x"})
	_, err := FormatPaths(context.Background(), []string{root}, FormatOptions{})
	require.ErrorIs(t, err, ErrNoSourceFiles)

	_, err = FormatPaths(context.Background(), []string{filepath.Join(root, "missing")}, FormatOptions{})
	require.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FormatPaths(ctx, []string{root}, FormatOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

type recordingSink struct {
	mu     sync.Mutex
	events []pipeline.Event
}

func (s *recordingSink) OnEvent(evt pipeline.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestFormatPathsEmitsProgress(t *testing.T) {
	root := writeTree(t, map[string]string{"a.ps1": "$x=1\n", "b.ps1": "b\n"})
	sink := &recordingSink{}
	timings := &pipeline.Timings{}
	_, err := FormatPaths(context.Background(), []string{root}, FormatOptions{Check: true, Progress: sink, Timings: timings})
	require.NoError(t, err)

	final := make(map[string]pipeline.Status)
	for _, evt := range sink.events {
		if evt.Status.Final() {
			final[filepath.Base(evt.File)] = evt.Status
		}
	}
	require.Equal(t, map[string]pipeline.Status{
		"a.ps1": pipeline.StatusChanged,
		"b.ps1": pipeline.StatusDone,
	}, final)
	require.True(t, timings.Has(pipeline.StageParse))
	require.True(t, timings.Has(pipeline.StageFormat))
	require.False(t, timings.Has(pipeline.StageWrite))
}

func TestWriteFile(t *testing.T) {
	root := writeTree(t, map[string]string{"in.ps1": "Get-Process|Sort-Object CPU\n"})
	out := filepath.Join(root, "out.ps1")
	require.NoError(t, WriteFile(context.Background(), filepath.Join(root, "in.ps1"), out, FormatOptions{}))
	require.Equal(t, "Get-Process | Sort-Object CPU\n", readFile(t, out))

	err := WriteFile(context.Background(), filepath.Join(root, "missing.ps1"), out, FormatOptions{})
	require.Error(t, err)
}

func TestFormatPathsEmitsTraceSpans(t *testing.T) {
	root := writeTree(t, map[string]string{"a.ps1": "$x=1\n"})
	tracer := trace.NewRingTracer(256, trace.LevelPass)
	ctx := trace.WithTracer(context.Background(), tracer)
	_, err := FormatPaths(ctx, []string{root}, FormatOptions{Check: true})
	require.NoError(t, err)

	ended := make(map[string]int)
	ids := make(map[string]uint64)
	parents := make(map[string]uint64)
	for _, ev := range tracer.Snapshot() {
		if ev.Kind == trace.KindSpanEnd {
			ended[ev.Name]++
			ids[ev.Name] = ev.SpanID
			parents[ev.Name] = ev.ParentID
		}
	}
	require.Equal(t, 1, ended["format_paths"])
	require.Equal(t, 1, ended["file"])
	require.Equal(t, 1, ended["parse"])
	require.Equal(t, 0, ended["write"])

	// файл вложен в прогон, проходы - в файл
	require.Zero(t, parents["format_paths"])
	require.Equal(t, ids["format_paths"], parents["file"])
	require.Equal(t, ids["file"], parents["parse"])
}
