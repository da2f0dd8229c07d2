package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchInput(t *testing.T) {
	captureUI(t)
	path := filepath.Join(t.TempDir(), "doc.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchInput(ctx, path, 10*time.Millisecond, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	// the watcher may not be registered yet, so keep writing until it fires
	deadline := time.After(5 * time.Second)
wait:
	for {
		if err := os.WriteFile(path, []byte(`{"a": 1}`), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-calls:
			break wait
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no rebuild after writing the input")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchInput() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchInput did not return after cancel")
	}
}

func TestWatchInputIgnoresSiblings(t *testing.T) {
	captureUI(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	calls := make(chan struct{}, 16)
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644)
	}()
	if err := watchInput(ctx, path, 10*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Errorf("rebuilt %d times for a sibling file", len(calls))
	}
}
