package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
)

// DefaultTimeout bounds a whole fetch, retries included, when the caller's
// client sets no timeout of its own.
const DefaultTimeout = 30 * time.Second

// ErrTooLarge is returned when a document exceeds the fetch limit.
var ErrTooLarge = errors.New("document too large")

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// IsURL reports whether s names an http or https location.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// BaseName returns the last path segment of a URL without query or
// fragment, or "" when there is none.
func BaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// Fetch downloads rawURL. Bodies larger than limit bytes fail with
// [ErrTooLarge]. A nil client uses one with [DefaultTimeout].
func Fetch(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, error) {
	if err := jgerrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = fetchOnce(ctx, client, rawURL, limit)
		return err
	})
	if err == nil {
		return data, nil
	}

	var status *StatusError
	switch {
	case errors.As(err, &status) && status.Code == http.StatusNotFound:
		return nil, jgerrors.Wrap(jgerrors.ErrCodeNotFound, err, "fetch %s", rawURL)
	case errors.Is(err, ErrTooLarge):
		return nil, jgerrors.Wrap(jgerrors.ErrCodeInvalidInput, err, "fetch %s", rawURL)
	default:
		return nil, jgerrors.Wrap(jgerrors.ErrCodeIO, err, "fetch %s", rawURL)
	}
}

func fetchOnce(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", "jsongraph/"+buildinfo.Version)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{URL: rawURL, Code: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &RetryableError{Err: err}
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
