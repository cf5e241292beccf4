package recordings

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) register(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileRegistered(t *testing.T) {
	fs := testFS(t)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, fs, rec.register, testLogger())
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(fs.Root(), "standup.wav"), []byte("RIFF"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("standup.wav")
	}, "new recording not registered by watcher")
}

func TestWatcher_IgnoresNonAudio(t *testing.T) {
	fs := testFS(t)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, fs, rec.register, testLogger())
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(fs.Root(), "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(fs.Root(), "retro.mp3"), []byte("ID3"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen("retro.mp3")
	}, "audio recording not registered")

	if rec.seen("notes.txt") {
		t.Error("non-audio file was registered")
	}
}

func TestWatcher_NewDirScanned(t *testing.T) {
	fs := testFS(t)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, fs, rec.register, testLogger())
	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(fs.Root(), "2025-03")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(subDir, "deep.wav"), []byte("RIFF"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.seen(filepath.Join("2025-03", "deep.wav"))
	}, "recording in new subdir not registered")
}

func TestSync_RegistersExistingFiles(t *testing.T) {
	fs := testFS(t)
	_ = fs.Write("a.wav", []byte("one"))
	_ = fs.Write("sub/b.mp3", []byte("two"))
	_ = os.WriteFile(filepath.Join(fs.Root(), "skip.txt"), []byte("x"), 0o644)

	rec := &recorder{}
	if err := Sync(fs, rec.register, testLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !rec.seen("a.wav") || !rec.seen(filepath.Join("sub", "b.mp3")) {
		t.Errorf("registered = %v", rec.paths)
	}
	if rec.seen("skip.txt") {
		t.Error("non-audio file was registered")
	}
}
