// Package workspace implements workspace-wide file discovery and live
// file-watching (spec §6 "workspace scan", §9 "the server indexes the
// whole workspace on startup and incrementally thereafter").
//
// Grounded on gnana997-uispec's pkg/indexer/scanner.go (WalkDir +
// doublestar include/exclude patterns) and pkg/indexer/watcher.go
// (fsnotify event loop with per-file debounce timers) — generalized
// from that package's worker-pool TypeScript/JavaScript indexer to a
// sequential PHP file scanner: Discover returns the matching paths and
// the caller indexes them one by one on its own goroutine.
package workspace

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ScanOptions controls which files a Scanner visits.
type ScanOptions struct {
	Include []string // glob patterns, default ["**/*.php"]
	Exclude []string // glob patterns, default ["vendor/**", ".git/**", "node_modules/**", "var/cache/**"]
}

// DefaultScanOptions mirrors a typical Composer-based PHP project.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{"**/*.php"},
		Exclude: []string{"vendor/**", ".git/**", "node_modules/**", "var/cache/**"},
	}
}

// Scanner walks a workspace root and reports matching PHP files.
type Scanner struct {
	Options ScanOptions
}

// NewScanner creates a Scanner with the given options.
func NewScanner(options ScanOptions) *Scanner {
	return &Scanner{Options: options}
}

// Discover walks rootPath and returns every file matching Include and
// not matching Exclude, relative patterns evaluated against the path
// relative to rootPath.
func (s *Scanner) Discover(rootPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		relPath, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range s.Options.Exclude {
			if matched, _ := doublestar.Match(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}

		if len(s.Options.Include) == 0 {
			files = append(files, path)
			return nil
		}
		for _, pattern := range s.Options.Include {
			if matched, _ := doublestar.Match(pattern, relPath); matched {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
