package files

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"bennypowers.dev/gtf/internal/collections"
	"bennypowers.dev/gtf/internal/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default debounce interval for file watch events
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changed files below a root. Events are debounced and
// delivered in batches of unique, sorted absolute paths.
type Watcher struct {
	watcher   *fsnotify.Watcher
	root      string
	matcher   Matcher
	debounce  time.Duration
	onChange  func(paths []string) error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher watches root and its subdirectories. onChange receives the
// matching files changed during a debounce interval; onError receives
// watch errors and errors returned by onChange.
func NewWatcher(root string, m Matcher, debounce time.Duration, onChange func([]string) error, onError func(error)) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	// Directories are watched rather than files so that editors which save by
	// renaming a temporary file are still seen.
	dirs, err := Dirs(absRoot, m)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &Watcher{
		watcher:   watcher,
		root:      absRoot,
		matcher:   m,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes in a goroutine
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.watchLoop()
}

// Stop stops the watcher and waits for cleanup
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Watcher) watchLoop() {
	defer close(w.stoppedCh)
	defer func() { _ = w.watcher.Close() }()

	pending := collections.NewSet[string]()
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.accept(event) {
				continue
			}
			pending.Add(event.Name)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			paths := collections.Sorted(pending)
			clear(pending)
			debounceTimer = nil
			debounceCh = nil

			if w.onChange != nil {
				if err := w.onChange(paths); err != nil {
					w.report(err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// accept filters events down to writes of matching files, and starts
// watching directories created after the watcher
func (w *Watcher) accept(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if dirs, err := Dirs(event.Name, w.matcher); err == nil && len(dirs) > 0 && !w.matcher.Skip(rel) {
			for _, dir := range dirs {
				if err := w.watcher.Add(dir); err != nil {
					log.Debug("Failed to watch %s: %v", dir, err)
				}
			}
			return false
		}
	}

	return w.matcher.Match(rel)
}

func (w *Watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
		return
	}
	log.Error("Watch error: %v", err)
}
