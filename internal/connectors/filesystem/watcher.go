// Package filesystem watches an inbox directory and uploads files dropped
// into it.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet before it is uploaded.
const DefaultSettleDelay = 500 * time.Millisecond

// ErrWatcherClosed is returned when Watch is called on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Uploader receives files found in the inbox.
type Uploader interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (*domain.Document, domain.IngestResult, error)
}

// ChangeType describes what happened to a file.
type ChangeType int

// Change types.
const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a filesystem event on one file in the inbox.
type Change struct {
	Type ChangeType
	Path string
}

// Result reports the outcome of uploading one inbox file.
type Result struct {
	Path   string
	Ingest domain.IngestResult
	Err    error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettleDelay sets how long a file must be unchanged before upload.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithExtensions restricts uploads to the given lower-case extensions.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = exts
	}
}

// WithScanExisting uploads files already present when Run starts.
func WithScanExisting(scan bool) Option {
	return func(w *Watcher) {
		w.scanExisting = scan
	}
}

// WithResultHandler sets a callback invoked after every upload attempt.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// Watcher uploads files that appear in a directory.
type Watcher struct {
	dir          string
	uploader     Uploader
	settle       time.Duration
	extensions   []string
	scanExisting bool
	onResult     func(Result)

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
	seen    map[string]fileStamp
}

// fileStamp identifies a file version so unchanged files are not re-uploaded.
type fileStamp struct {
	size    int64
	modTime time.Time
}

// New creates a watcher for dir.
func New(dir string, uploader Uploader, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		uploader: uploader,
		settle:   DefaultSettleDelay,
		seen:     make(map[string]fileStamp),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch streams changes in the directory until ctx is cancelled.
// The channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox path error: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.watcher = fsw

	changes := make(chan Change)
	go w.forward(ctx, fsw, changes)
	return changes, nil
}

func (w *Watcher) forward(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- Change) {
	defer close(changes)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Inbox watcher error: %v", err)
		}
	}
}

// handleFsEvent maps an fsnotify event to a change, dropping directories,
// hidden files and permission-only events.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if w.hidden(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		if event.Has(fsnotify.Create) {
			return &Change{Type: ChangeCreated, Path: event.Name}
		}
		return &Change{Type: ChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

// Run uploads inbox files until ctx is cancelled. A file is uploaded once it
// has been quiet for the settle delay. Uploads run one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	ready := make(chan string, 16)
	var (
		timersMu sync.Mutex
		timers   = make(map[string]*time.Timer)
	)
	schedule := func(path string) {
		timersMu.Lock()
		defer timersMu.Unlock()
		if t, ok := timers[path]; ok {
			t.Reset(w.settle)
			return
		}
		timers[path] = time.AfterFunc(w.settle, func() {
			timersMu.Lock()
			delete(timers, path)
			timersMu.Unlock()
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		timersMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timersMu.Unlock()
	}()

	if w.scanExisting {
		for _, path := range w.existingFiles() {
			schedule(path)
		}
	}

	logger.Info("Watching %s for new documents", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if change.Type == ChangeDeleted {
				w.forget(change.Path)
				continue
			}
			if w.accepts(change.Path) {
				schedule(change.Path)
			}
		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

func (w *Watcher) existingFiles() []string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Failed to scan inbox %s: %v", w.dir, err)
		return nil
	}

	var paths []string //nolint:prealloc // size unknown until filtered
	for _, e := range entries {
		path := filepath.Join(w.dir, e.Name())
		if e.IsDir() || w.hidden(path) || !w.accepts(path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (w *Watcher) accepts(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return slices.Contains(w.extensions, domain.FileExtension(path))
}

// process uploads path unless the same version was already uploaded.
func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}

	w.mu.Lock()
	prev, ok := w.seen[path]
	w.mu.Unlock()
	if ok && prev == stamp {
		return
	}

	result := Result{Path: path}
	f, err := os.Open(path)
	if err != nil {
		result.Err = fmt.Errorf("open %s: %w", path, err)
	} else {
		_, result.Ingest, result.Err = w.uploader.Upload(ctx, filepath.Base(path), f)
		f.Close()
	}

	if result.Err != nil {
		logger.Error("Failed to ingest %s: %v", filepath.Base(path), result.Err)
	} else {
		w.mu.Lock()
		w.seen[path] = stamp
		w.mu.Unlock()
		logger.Info("Ingested %s (%d chunks)", filepath.Base(path), result.Ingest.ChunksCreated)
	}

	if w.onResult != nil {
		w.onResult(result)
	}
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.seen, path)
	w.mu.Unlock()
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// hidden reports whether path is hidden relative to the inbox, so an inbox
// that itself lives under a dot directory still works.
func (w *Watcher) hidden(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return isHidden(rel)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
