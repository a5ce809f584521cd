// Package watch rebuilds the term set when its source files change.
//
// Files are selected with doublestar patterns. The directories under each
// pattern's static prefix are watched with fsnotify, changes are collected
// until no new change arrives for the debounce delay, and a single rebuild
// runs for the whole batch. A change that leaves every file's content as it
// was does not trigger a rebuild.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no debounce delay is configured.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoPatterns is returned when a watcher is created without patterns.
var ErrNoPatterns = errors.New("no watch patterns")

// RebuildFunc runs one build. changed lists the files that triggered it.
type RebuildFunc func(ctx context.Context, changed []string) error

// Watcher runs a rebuild whenever a watched file changes.
type Watcher struct {
	patterns []string
	debounce time.Duration
	rebuild  RebuildFunc
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before rebuilding
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Content hashes of matched files as of the last rebuild
	hashes map[string]string
}

// New creates a watcher for patterns. Relative patterns are made absolute
// against the working directory.
func New(patterns []string, debounce time.Duration, rebuild RebuildFunc, logger *slog.Logger) (*Watcher, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", p, err)
		}
		a = filepath.ToSlash(a)
		if !doublestar.ValidatePattern(a) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
		abs = append(abs, a)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		patterns: abs,
		debounce: debounce,
		rebuild:  rebuild,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
	}

	for _, p := range abs {
		if err := w.addPattern(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	w.seedHashes()

	return w, nil
}

// Patterns returns the absolute patterns being watched.
func (w *Watcher) Patterns() []string {
	return w.patterns
}

// Run processes file events until ctx is done or the watcher is closed.
// Rebuild errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.Info("Watching for source changes",
		"patterns", w.patterns,
		"debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleFSEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-timer.C:
			w.flushPending(ctx)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Matches reports whether path is selected by any watch pattern.
func (w *Watcher) Matches(path string) bool {
	p := filepath.ToSlash(path)
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// addPattern watches the static base directory of pattern, recursing when the
// pattern can match below it.
func (w *Watcher) addPattern(pattern string) error {
	base, rest := doublestar.SplitPattern(pattern)
	dir := filepath.FromSlash(base)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %q: %w", pattern, err)
	}
	if !info.IsDir() {
		// A literal file path; watch its directory so replacements are seen.
		dir = filepath.Dir(dir)
	}

	if !strings.Contains(rest, "/") {
		return w.addDir(dir)
	}
	return w.addWatchesRecursive(dir)
}

func (w *Watcher) addDir(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %q: %w", dir, err)
	}
	w.logger.Debug("Watching directory", "path", dir)
	return nil
}

// addWatchesRecursive adds watches to dir and every directory below it.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		// Skip hidden directories
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// handleFSEvent records a change to a matched file and reports whether one
// was recorded.
func (w *Watcher) handleFSEvent(event fsnotify.Event) bool {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return false
		}
	}

	if !w.Matches(path) {
		return false
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Source change detected", "path", path, "op", event.Op.String())
	return true
}

// handleNewDirectory watches a directory created under a recursive pattern.
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	for _, pattern := range w.patterns {
		base, rest := doublestar.SplitPattern(pattern)
		if !strings.Contains(rest, "/") {
			continue
		}
		if rel, err := filepath.Rel(filepath.FromSlash(base), path); err == nil && !strings.HasPrefix(rel, "..") {
			if err := w.addWatchesRecursive(path); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}
}

// flushPending rebuilds once for all changes collected since the last flush.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	changed := make([]string, 0, len(toProcess))
	for path := range toProcess {
		if w.contentChanged(path) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	if len(changed) == 0 {
		w.logger.Debug("Source content unchanged, skipping rebuild")
		return
	}
	if ctx.Err() != nil || w.rebuild == nil {
		return
	}

	w.logger.Info("Rebuilding after source change", "files", changed)
	if err := w.rebuild(ctx, changed); err != nil {
		w.logger.Error("Rebuild failed", "error", err)
	}
}

// contentChanged updates the recorded hash for path and reports whether it
// differs from the previous one. Removed files always count as changed.
func (w *Watcher) contentChanged(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		if _, had := w.hashes[path]; had {
			delete(w.hashes, path)
			return true
		}
		return errors.Is(err, fs.ErrNotExist)
	}

	hash := contentHash(content)
	if old, ok := w.hashes[path]; ok && old == hash {
		return false
	}
	w.hashes[path] = hash
	return true
}

// seedHashes records the content of every file that currently matches.
func (w *Watcher) seedHashes() {
	for _, pattern := range w.patterns {
		matches, err := doublestar.FilepathGlob(filepath.FromSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, m := range matches {
			if content, err := os.ReadFile(m); err == nil {
				w.hashes[m] = contentHash(content)
			}
		}
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
