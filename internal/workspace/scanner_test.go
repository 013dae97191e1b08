package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/workspace"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
}

func TestScannerDiscoversOnlyIncludedPHPFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Foo.php")
	writeFile(t, root, "src/readme.txt")
	writeFile(t, root, "vendor/Bar.php")

	s := workspace.NewScanner(workspace.DefaultScanOptions())
	found, err := s.Discover(root)
	require.NoError(t, err)

	var rels []string
	for _, f := range found {
		rel, _ := filepath.Rel(root, f)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{"src/Foo.php"}, rels,
		"non-.php files and vendor/ are excluded by the default options")
}

func TestScannerHonorsCustomIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.php")
	writeFile(t, root, "skip/b.php")

	s := workspace.NewScanner(workspace.ScanOptions{
		Include: []string{"**/*.php"},
		Exclude: []string{"skip/**"},
	})
	found, err := s.Discover(root)
	require.NoError(t, err)
	require.Len(t, found, 1)
	rel, _ := filepath.Rel(root, found[0])
	assert.Equal(t, "a.php", filepath.ToSlash(rel))
}

func TestScannerWithNoIncludePatternsReturnsEveryNonExcludedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	s := workspace.NewScanner(workspace.ScanOptions{})
	found, err := s.Discover(root)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
