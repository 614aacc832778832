// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when watched files change.
//
// Editors often replace a file by writing a temporary file and renaming it
// over the original, which drops a watch placed on the file itself. The
// watcher therefore watches each file's parent directory and filters events
// down to the requested files. Events within the debounce window are
// coalesced into one callback.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets rapid successive events (write then rename of a temp
// file) coalesce into a single callback.
const defaultDebounce = 300 * time.Millisecond

// Watcher fires a debounced callback when any of its files change. Run must
// be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	stdout   io.Writer
	stderr   io.Writer
	debounce time.Duration
	started  atomic.Bool
}

// New validates cfg, resolves the files to absolute paths and registers
// their parent directories with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files := make(map[string]struct{}, len(cfg.Files))
	dirs := make(map[string]struct{})
	for _, f := range cfg.Files {
		abs, err := f.Abs()
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		files[string(abs)] = struct{}{}
		dirs[string(abs.Dir())] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if addErr := fsw.Add(dir); addErr != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
			}
			return nil, fmt.Errorf("watch: add directory %q: %w", dir, addErr)
		}
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		files:    files,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
	}, nil
}

// Files returns the absolute paths being watched, sorted.
func (w *Watcher) Files() []string {
	return slices.Sorted(maps.Keys(w.files))
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error if the watcher breaks. Callbacks
// never overlap: a debounce that fires while the previous callback is still
// running is retried after another debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation because it is scheduled with
	// time.AfterFunc; the callback gets ctx and must check it.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping re-check (previous run still in progress)\n")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt) {
				continue
			}

			mu.Lock()
			pending[filepath.Clean(evt.Name)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// relevant reports whether evt touches a watched file with an operation that
// can change its content. Chmod-only events are ignored.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(evt.Name)]; !ok {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) ||
		evt.Has(fsnotify.Rename) || evt.Has(fsnotify.Remove)
}
