// Package pipeline runs the build → layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Build: decode a JSON or YAML document and construct its tree
//  2. Layout: produce positioned node and edge records at a depth
//  3. Render: write the records as JSON, DOT or SVG
//
// Layout records and rendered artifacts are cached; the key of the records
// is the SHA-256 of the input bytes together with the depth and format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "sample.json",
//	    Depth:   tree.Unlimited,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/httputil"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/render/nodelink"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultDepth expands the whole document.
const DefaultDepth = tree.Unlimited

// MaxInputBytes bounds the size of a document read by the pipeline.
const MaxInputBytes = 64 << 20

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = nodelink.FormatDOT
	FormatSVG  = nodelink.FormatSVG
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Input: a path, an http(s) URL, or the document itself.
	Source string           `json:"source,omitempty"`
	Data   []byte           `json:"-"`
	Format jsongraph.Format `json:"format,omitempty"` // empty: by Source extension, else JSON

	// HTTPClient fetches URL sources; nil uses a client with a timeout.
	HTTPClient *http.Client `json:"-"`

	// Depth is the number of container levels to expand; tree.Unlimited
	// (-1) expands everything.
	Depth   tree.Depth `json:"depth"`
	Refresh bool       `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Elements are the laid-out records.
	Elements graph.Elements

	// InputHash is the SHA-256 of the input document.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration // build and layout, or the cache lookup on a hit
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ElementsHit bool // records came from cache
	RenderHit   bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForBuild checks the input options and fills in the format.
func (o *Options) ValidateForBuild() error {
	if o.Source == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "source or data is required")
	}
	switch {
	case httputil.IsURL(o.Source):
		if err := errors.ValidateURL(o.Source); err != nil {
			return err
		}
	case o.Source != "":
		if err := errors.ValidateSourcePath(o.Source); err != nil {
			return err
		}
	}
	if err := errors.ValidateDepth(int(o.Depth)); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = jsongraph.FormatJSON
		switch {
		case httputil.IsURL(o.Source):
			o.Format = jsongraph.FormatForPath(httputil.BaseName(o.Source))
		case o.Source != "":
			o.Format = jsongraph.FormatForPath(o.Source)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// ElementsKeyOpts returns cache key options for the records.
func (o *Options) ElementsKeyOpts() cache.ElementsKeyOpts {
	return cache.ElementsKeyOpts{
		Depth:  int(o.Depth),
		Format: string(o.Format),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.EdgeLabels,
		Scale:  o.Scale,
	}
}

// NodelinkOptions returns the renderer options.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{EdgeLabels: o.EdgeLabels, Scale: o.Scale}
}
