package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/pipeline"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

// Builder runs the pipeline. *pipeline.Runner implements it.
type Builder interface {
	Execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

// GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

// POST /v1/graph
func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseGraphQuery(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, string(jgerrors.ErrCodeInvalidInput),
				"document exceeds "+strconv.FormatInt(s.opts.MaxBodyBytes, 10)+" bytes")
			return
		}
		s.writeErr(w, r, jgerrors.Wrap(jgerrors.ErrCodeIO, err, "read request body"))
		return
	}
	if len(body) == 0 {
		s.writeErr(w, r, jgerrors.New(jgerrors.ErrCodeInvalidInput, "request body is empty"))
		return
	}
	opts.Data = body

	res, err := s.builder.Execute(r.Context(), opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	output := opts.Formats[0]
	cache := "miss"
	if res.CacheInfo.ElementsHit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[output])
	w.Header().Set("X-Cache", cache)
	w.Header().Set("X-Input-Hash", res.InputHash)
	w.Header().Set("X-Graph-Nodes", strconv.Itoa(res.Stats.NodeCount))
	w.Header().Set("X-Graph-Edges", strconv.Itoa(res.Stats.EdgeCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[output])
}

// parseGraphQuery turns query parameters into pipeline options.
func (s *Server) parseGraphQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Depth:  tree.Unlimited,
		Format: jsongraph.FormatJSON,
	}

	if v := q.Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return opts, jgerrors.New(jgerrors.ErrCodeInvalidDepth, "depth must be an integer, got %q", v)
		}
		if err := jgerrors.ValidateDepth(d); err != nil {
			return opts, err
		}
		opts.Depth = tree.Depth(d)
	}

	format, err := jsongraph.ParseFormat(q.Get("input"))
	if err != nil {
		return opts, err
	}
	if format != "" {
		opts.Format = format
	}

	output := q.Get("output")
	if output == "" {
		output = s.opts.Output
	}
	if err := pipeline.ValidateFormat(output); err != nil {
		return opts, err
	}
	opts.Formats = []string{output}

	if opts.EdgeLabels, err = boolParam(q.Get("edge_labels")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
			return opts, jgerrors.New(jgerrors.ErrCodeInvalidInput, "scale must be a positive number, got %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, jgerrors.New(jgerrors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code, RequestID: RequestIDFrom(r.Context())})
}

// writeErr maps a pipeline error to a status: caller mistakes are 400 (or
// 422 for unparseable documents), everything else is 500.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := jgerrors.GetCode(err)
	switch {
	case code == jgerrors.ErrCodeParse:
		writeError(w, r, http.StatusUnprocessableEntity, string(code), jgerrors.UserMessage(err))
	case jgerrors.IsInputError(err):
		writeError(w, r, http.StatusBadRequest, string(code), jgerrors.UserMessage(err))
	default:
		if code == "" {
			code = jgerrors.ErrCodeInternal
		}
		s.logger.Error("request failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, r, http.StatusInternalServerError, string(code), "internal error")
	}
}
