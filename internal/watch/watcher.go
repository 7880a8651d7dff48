package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

// Op is the kind of file-system event.
type Op int

const (
	OpCreate Op = iota
	OpModify
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Change represents a detected file change.
type Change struct {
	Path string
	Op   Op
	Type ChangeType
}

// Config configures the watcher.
type Config struct {
	// Paths are the directories and files to watch. Missing paths are
	// polled too, so a pages directory created later is picked up.
	Paths []string

	// Ignore patterns to skip (names, path segments or globs).
	Ignore []string

	// Interval is the polling period.
	Interval time.Duration

	// Classify assigns a ChangeType to a path. Defaults to ChangeOther.
	Classify func(path string) ChangeType
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls files for changes.
type Watcher struct {
	config   Config
	onChange func([]Change)
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	stamps   map[string]stamp
}

// stamp identifies one version of a file.
type stamp struct {
	modTime time.Time
	size    int64
}

func (s stamp) same(o stamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// New creates a new watcher.
func New(config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Classify == nil {
		config.Classify = func(string) ChangeType { return ChangeOther }
	}

	return &Watcher{
		config: config,
		stamps: make(map[string]stamp),
	}
}

// Reconfigure replaces the watched paths, ignore patterns and classifier.
// Empty values fall back to the defaults. Files under new paths are reported
// as created on the next poll and files no longer watched as removed.
func (w *Watcher) Reconfigure(paths, ignore []string, classify func(path string) ChangeType) {
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}
	if classify == nil {
		classify = func(string) ChangeType { return ChangeOther }
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.config.Paths = paths
	w.config.Ignore = ignore
	w.config.Classify = classify
}

// OnChange sets the callback for change batches. The callback runs on the
// watcher goroutine.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is cancelled or Stop is called. It returns nil after
// Stop and ctx.Err() after cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	initial := w.scan()
	w.mu.Lock()
	w.stamps = initial
	w.mu.Unlock()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Poll compares the watched paths with the previous scan and reports the
// differences. Start calls it on every tick.
func (w *Watcher) Poll() []Change {
	current := w.scan()

	w.mu.Lock()
	var changes []Change
	for p, st := range current {
		last, ok := w.stamps[p]
		switch {
		case !ok:
			changes = append(changes, w.change(p, OpCreate))
		case !st.same(last):
			changes = append(changes, w.change(p, OpModify))
		}
	}
	for p := range w.stamps {
		if _, ok := current[p]; !ok {
			changes = append(changes, w.change(p, OpRemove))
		}
	}
	w.stamps = current
	callback := w.onChange
	w.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}
	sortChanges(changes)
	if callback != nil {
		callback(changes)
	}
	return changes
}

func (w *Watcher) change(path string, op Op) Change {
	return Change{Path: path, Op: op, Type: w.config.Classify(path)}
}

// scan returns the stamp of every watched file.
func (w *Watcher) scan() map[string]stamp {
	w.mu.Lock()
	roots := w.config.Paths
	ignore := w.config.Ignore
	w.mu.Unlock()

	found := make(map[string]stamp)
	for _, root := range roots {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			// Missing roots and entries removed mid-walk are skipped.
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if p != root && shouldIgnore(ignore, p) {
					return filepath.SkipDir
				}
				return nil
			}
			if shouldIgnore(ignore, p) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			found[p] = stamp{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return found
}
