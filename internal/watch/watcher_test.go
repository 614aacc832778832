// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/invowk/depcheck/internal/testutil"
	"github.com/invowk/depcheck/pkg/types"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() error {
		cancel()
		return <-errCh
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := testutil.WriteFile(t, dir, "deps.txt", "A: B\n")

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Files:    []types.FilesystemPath{types.FilesystemPath(target)},
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for i := range 3 {
		testutil.WriteFile(t, filepath.Dir(target), "deps.txt", strings.Repeat("A: B\n", i+2))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	if len(collected) != 1 || collected[0] != filepath.Clean(target) {
		t.Errorf("changed = %v, want [%s]", collected, target)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := testutil.WriteFile(t, dir, "deps.txt", "A: B\n")

	fired := make(chan []string, 10)
	w, err := New(Config{
		Files:    []types.FilesystemPath{types.FilesystemPath(target)},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	testutil.WriteFile(t, dir, "notes.txt", "unrelated")

	select {
	case changed := <-fired:
		t.Fatalf("callback fired for an unwatched file: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherAtomicReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := testutil.WriteFile(t, dir, "deps.txt", "A: B\n")

	fired := make(chan []string, 10)
	w, err := New(Config{
		Files:    []types.FilesystemPath{types.FilesystemPath(target)},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	// Editors save by writing a temp file and renaming it over the original.
	tmp := testutil.WriteFile(t, dir, ".deps.txt.swp", "A: A\n")
	if err := os.Rename(tmp, target); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback after rename")
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	target := testutil.WriteFile(t, t.TempDir(), "deps.txt", "")

	w, err := New(Config{
		Files:  []types.FilesystemPath{types.FilesystemPath(target)},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() on canceled context error = %v", err)
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	target := testutil.WriteFile(t, t.TempDir(), "deps.txt", "")

	w, err := New(Config{
		Files:  []types.FilesystemPath{types.FilesystemPath(target)},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	// Give the first Run a moment to claim the watcher.
	time.Sleep(20 * time.Millisecond)
	if err := w.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "more than once") {
		t.Errorf("second Run() error = %v, want 'more than once'", err)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	target := testutil.WriteFile(t, t.TempDir(), "deps.txt", "")

	var stdout safeBuffer
	done := make(chan struct{})
	var once sync.Once

	w, err := New(Config{
		Files:       []types.FilesystemPath{types.FilesystemPath(target)},
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &stdout,
		Stderr:      &bytes.Buffer{},
		OnChange: func(context.Context, []string) error {
			once.Do(func() { close(done) })
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	testutil.WriteFile(t, filepath.Dir(target), "deps.txt", "A: B\n")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(stdout.String(), "\033[2J\033[H") {
		t.Errorf("stdout = %q, want ANSI clear sequence", stdout.String())
	}
}

func TestWatcherCallbackErrorIsReported(t *testing.T) {
	t.Parallel()

	target := testutil.WriteFile(t, t.TempDir(), "deps.txt", "")

	var stderr safeBuffer
	done := make(chan struct{})
	var once sync.Once

	w, err := New(Config{
		Files:    []types.FilesystemPath{types.FilesystemPath(target)},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &stderr,
		OnChange: func(context.Context, []string) error {
			defer once.Do(func() { close(done) })
			return errors.New("boom")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	testutil.WriteFile(t, filepath.Dir(target), "deps.txt", "A: B\n")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	// The error is printed after the callback returns.
	time.Sleep(50 * time.Millisecond)
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(stderr.String(), "callback error: boom") {
		t.Errorf("stderr = %q, want callback error", stderr.String())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); !errors.Is(err, ErrInvalidWatchConfig) {
		t.Fatalf("New(Config{}) error = %v, want ErrInvalidWatchConfig", err)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nope", "deps.txt")
	if _, err := New(Config{Files: []types.FilesystemPath{types.FilesystemPath(target)}, Stderr: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected an error when the parent directory does not exist")
	}
}

func TestWatcherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	w, err := New(Config{Files: []types.FilesystemPath{types.FilesystemPath(b), types.FilesystemPath(a), types.FilesystemPath(a)}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	got := w.Files()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Files() = %v, want [%s %s]", got, a, b)
	}
}

// safeBuffer is a bytes.Buffer safe for concurrent use by the watcher's
// timer goroutine and the test.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
