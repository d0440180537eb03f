package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSourceFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.ps1":     true,
		"A.PS1":     true,
		"mod.psm1":  true,
		"data.psd1": true,
		"a.ps1.bak": false,
		"README.md": false,
	} {
		require.Equal(t, want, IsSourceFile(path), path)
	}
}

func TestCollectSourceFilesDeduplicates(t *testing.T) {
	root := writeTree(t, map[string]string{"b.ps1": "", "a.ps1": ""})
	a := filepath.Join(root, "a.ps1")
	files, err := collectSourceFiles(context.Background(), []string{root, a}, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, a, files[0].path)
	require.True(t, files[0].explicit)
	require.False(t, files[1].explicit)
}

func TestExcluderMatchesRelativePaths(t *testing.T) {
	ex := excluder{base: "/repo", patterns: []string{"build/**", "**/*.Tests.ps1"}}
	require.True(t, ex.match("/repo/build/x.ps1"))
	require.True(t, ex.match("/repo/src/a/Foo.Tests.ps1"))
	require.False(t, ex.match("/repo/src/Foo.ps1"))
	require.False(t, ex.match("/elsewhere/build/x.ps1"))
	require.False(t, excluder{base: "/repo"}.match("/repo/x.ps1"))
}
