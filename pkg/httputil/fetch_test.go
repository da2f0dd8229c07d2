package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
)

func fastRetries(t *testing.T) {
	t.Helper()
	prev := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = prev })
}

func TestFetch(t *testing.T) {
	fastRetries(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc.json":
			_, _ = w.Write([]byte(`{"a": 1}`))
		case "/flaky.json":
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[1]`))
		case "/down.json":
			w.WriteHeader(http.StatusBadGateway)
		case "/big.json":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		path string
		want string
		code jgerrors.Code
	}{
		{"OK", "/doc.json", `{"a": 1}`, ""},
		{"RetriedUntilSuccess", "/flaky.json", `[1]`, ""},
		{"RetriesExhausted", "/down.json", "", jgerrors.ErrCodeIO},
		{"NotFound", "/missing.json", "", jgerrors.ErrCodeNotFound},
		{"TooLarge", "/big.json", "", jgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Fetch(context.Background(), srv.Client(), srv.URL+tt.path, 64)
			if tt.code != "" {
				if !jgerrors.Is(err, tt.code) {
					t.Fatalf("Fetch() error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Fetch() = %q, want %q", data, tt.want)
			}
		})
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("flaky endpoint called %d times, want 3", got)
	}
}

func TestFetchNotFoundIsNotRetried(t *testing.T) {
	fastRetries(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/x.json", 64)
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusNotFound {
		t.Fatalf("error = %v, want a 404 StatusError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchRejectsOtherSchemes(t *testing.T) {
	_, err := Fetch(context.Background(), nil, "file:///etc/passwd", 64)
	if !jgerrors.Is(err, jgerrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/doc.json", true},
		{"http://localhost:8080/x", true},
		{"doc.json", false},
		{"ftp://example.com/doc.json", false},
		{"-", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/data/doc.yaml?ref=main#top", "doc.yaml"},
		{"https://example.com/", ""},
		{"https://example.com", ""},
	}
	for _, tt := range tests {
		if got := BaseName(tt.in); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("timeout")}
	permanent := errors.New("bad request")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"FirstTry", []error{nil}, 1, nil},
		{"Transient", []error{transient, nil}, 2, nil},
		{"Permanent", []error{permanent}, 1, permanent},
		{"Exhausted", []error{transient, transient, transient}, 3, transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), 3, time.Millisecond, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("Retry() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
