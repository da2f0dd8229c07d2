// Package httputil fetches remote documents.
//
// [Fetch] downloads a document over HTTP(S) with a size limit, retrying
// transient failures (network errors, 429 and 5xx responses) with
// exponential backoff through [Retry]:
//
//	data, err := httputil.Fetch(ctx, nil, "https://example.com/doc.json", 8<<20)
//
// Non-success responses surface as [*StatusError]; a 404 maps to the
// NOT_FOUND error code and other failures to IO_ERROR.
package httputil
