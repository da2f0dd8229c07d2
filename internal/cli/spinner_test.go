package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// captureUI redirects status output for the duration of a test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestSpinnerShowsMessage(t *testing.T) {
	buf := captureUI(t)

	sp := spin(context.Background(), "Building graph...")
	time.Sleep(3 * spinnerInterval)
	sp.stop(nil, "Build failed")

	out := buf.String()
	if !strings.Contains(out, "Building graph...") {
		t.Errorf("spinner output = %q, want message", out)
	}
	if strings.Contains(out, "Build failed") {
		t.Errorf("spinner output = %q, want no failure line", out)
	}
	if sp.interrupted() {
		t.Error("interrupted() = true without cancellation")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	buf := captureUI(t)

	sp := spin(context.Background(), "Rendering...")
	sp.stop(errors.New("boom"), "Render failed")

	if !strings.Contains(buf.String(), "Render failed") {
		t.Errorf("output = %q, want failure line", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	buf := captureUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	sp := spin(ctx, "Waiting...")
	cancel()
	sp.stop(context.Canceled, "Build failed")

	if !sp.interrupted() {
		t.Error("interrupted() = false after cancel")
	}
	if strings.Contains(buf.String(), "Build failed") {
		t.Errorf("output = %q, cancellation should not print a failure", buf.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureUI(t)

	sp := spin(context.Background(), "Rendering...")
	sp.stop(nil, "")
	sp.stop(nil, "")
}
