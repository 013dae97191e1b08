package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// ChangeKind distinguishes the two reindexing actions a watched change
// can require.
type ChangeKind int

const (
	// Changed means the file was written or created; the caller should
	// re-read and re-analyze it.
	Changed ChangeKind = iota
	// Removed means the file disappeared; the caller should forget it.
	Removed
)

// ChangeHandler is invoked (already debounced) for one file path.
type ChangeHandler func(path string, kind ChangeKind)

// Watcher watches a workspace root for PHP file changes, debouncing
// rapid successive events per file (spec §9 "changes are coalesced
// before triggering re-analysis"), grounded on gnana997-uispec's
// FileWatcher.
type Watcher struct {
	fs      *fsnotify.Watcher
	logger  commonlog.Logger
	options ScanOptions
	debounceMs int
	handler ChangeHandler

	mu             sync.Mutex
	debounceTimers map[string]*time.Timer
	stopChan       chan struct{}
	stopped        bool
}

// NewWatcher creates a Watcher. debounceMs <= 0 defaults to 250ms.
func NewWatcher(options ScanOptions, debounceMs int, handler ChangeHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if debounceMs <= 0 {
		debounceMs = 250
	}
	return &Watcher{
		fs:             fsw,
		logger:         commonlog.GetLoggerf("phpls.workspace"),
		options:        options,
		debounceMs:     debounceMs,
		handler:        handler,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and every subdirectory not excluded by
// Options or named .git, node_modules or var, then begins processing events in a background goroutine.
func (w *Watcher) Start(rootPath string) error {
	if err := w.fs.Add(rootPath); err != nil {
		return fmt.Errorf("watch %s: %w", rootPath, err)
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(rootPath, path)
		if relErr == nil && w.isExcluded(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fs.Add(path); addErr != nil {
			w.logger.Warningf("failed to watch directory %s: %v", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("setup watches under %s: %w", rootPath, err)
	}

	go w.eventLoop()
	return nil
}

// Stop shuts the watcher down. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	for _, t := range w.debounceTimers {
		t.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	return w.fs.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("file watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	rel := filepath.ToSlash(path)
	if w.isExcluded(rel) || filepath.Ext(path) != ".php" {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
		w.debounce(path, Changed)
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		w.debounce(path, Removed)
	}
}

func (w *Watcher) debounce(path string, kind ChangeKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, func() {
		w.handler(path, kind)
		w.mu.Lock()
		delete(w.debounceTimers, path)
		w.mu.Unlock()
	})
}

func (w *Watcher) isExcluded(relPath string) bool {
	base := filepath.Base(relPath)
	switch base {
	case ".git", "node_modules", "var":
		return true
	}
	for _, pattern := range w.options.Exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
