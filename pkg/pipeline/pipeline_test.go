package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

const sampleDoc = `{"name": "value", "list": [1, 2]}`

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForBuild(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantCode   errors.Code
		wantFormat jsongraph.Format
	}{
		{name: "NoInput", opts: Options{}, wantCode: errors.ErrCodeInvalidInput},
		{name: "BadDepth", opts: Options{Data: []byte("1"), Depth: -2}, wantCode: errors.ErrCodeInvalidDepth},
		{name: "DataDefaultsToJSON", opts: Options{Data: []byte("1")}, wantFormat: jsongraph.FormatJSON},
		{name: "YAMLByExtension", opts: Options{Source: "doc.yml"}, wantFormat: jsongraph.FormatYAML},
		{name: "ExplicitFormat", opts: Options{Source: "doc.txt", Format: jsongraph.FormatYAML}, wantFormat: jsongraph.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateForBuild()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", opts.Format, tt.wantFormat)
			}
			if opts.Logger == nil {
				t.Error("Logger default not set")
			}
		})
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()
	if !reflect.DeepEqual(opts.Formats, []string{FormatJSON}) {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}

	opts = Options{Scale: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestBuildElements(t *testing.T) {
	opts := Options{Data: []byte(sampleDoc), Depth: tree.Unlimited}
	if err := opts.ValidateForBuild(); err != nil {
		t.Fatal(err)
	}

	e, err := BuildElements(context.Background(), opts.Data, opts)
	if err != nil {
		t.Fatalf("BuildElements: %v", err)
	}
	if len(e.Nodes) != 5 || len(e.Edges) != 4 {
		t.Errorf("records = %d nodes, %d edges, want 5, 4", len(e.Nodes), len(e.Edges))
	}
	if e.Nodes[0].Data.ID != "1" {
		t.Errorf("first id = %s, want 1", e.Nodes[0].Data.ID)
	}

	again, err := BuildElements(context.Background(), opts.Data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e, again) {
		t.Error("equal inputs produced different records")
	}
}

func TestBuildElementsParseError(t *testing.T) {
	opts := Options{Data: []byte(`{"a":`), Format: jsongraph.FormatJSON}
	_, err := BuildElements(context.Background(), opts.Data, opts)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeParse)
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadInput(context.Background(), Options{Source: path})
	if err != nil || string(data) != sampleDoc {
		t.Errorf("ReadInput = %q, %v", data, err)
	}

	_, err = ReadInput(context.Background(), Options{Source: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeIO)
	}
}

func TestRunnerBuildFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/doc.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("name: value\nlist: [1, 2]\n"))
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil)
	opts := Options{Source: srv.URL + "/doc.yaml", Depth: tree.Unlimited, HTTPClient: srv.Client()}
	e, err := r.Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// the .yaml suffix of the URL path selects the YAML decoder
	if len(e.Nodes) != 5 || len(e.Edges) != 4 {
		t.Errorf("records = %d nodes, %d edges, want 5 and 4", len(e.Nodes), len(e.Edges))
	}

	opts.Source = srv.URL + "/missing.json"
	if _, err := r.Build(context.Background(), opts); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing URL err = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{Data: []byte(sampleDoc), Depth: tree.Unlimited, Formats: []string{FormatJSON, FormatDOT}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.ElementsHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.NodeCount != 5 || first.Stats.EdgeCount != 4 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.InputHash != cache.Hash([]byte(sampleDoc)) {
		t.Errorf("InputHash = %s", first.InputHash)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.ElementsHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !reflect.DeepEqual(first.Elements, second.Elements) {
		t.Error("cached records differ from built records")
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached DOT differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ElementsHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRunnerDepthIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	full, hit, err := r.BuildWithCacheInfo(ctx, Options{Data: []byte(sampleDoc), Depth: tree.Unlimited})
	if err != nil || hit {
		t.Fatalf("first build: hit %v, err %v", hit, err)
	}
	shallow, hit, err := r.BuildWithCacheInfo(ctx, Options{Data: []byte(sampleDoc), Depth: 0})
	if err != nil || hit {
		t.Fatalf("depth 0 build: hit %v, err %v", hit, err)
	}
	if len(full.Nodes) == len(shallow.Nodes) {
		t.Error("depth did not change the records")
	}
	if len(shallow.Nodes) != 1 || len(shallow.Edges) != 0 {
		t.Errorf("depth 0 records = %d nodes, %d edges", len(shallow.Nodes), len(shallow.Edges))
	}
}

func TestRunnerExecuteFromSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("a:\n  b: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Source: path, Depth: tree.Unlimited})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Elements.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(res.Elements.Nodes))
	}

	got, err := graph.UnmarshalElements(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !reflect.DeepEqual(got, res.Elements) {
		t.Error("json artifact does not match records")
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"Missing", Options{Source: filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeIO},
		{"Malformed", Options{Data: []byte(`[1,`)}, errors.ErrCodeParse},
		{"BadFormat", Options{Data: []byte(`1`), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"BadDepth", Options{Data: []byte(`1`), Depth: -5}, errors.ErrCodeInvalidDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestRenderElementsDOT(t *testing.T) {
	e := graph.Elements{Nodes: []graph.Node{{Data: graph.NodeData{ID: "1", Label: "x"}}}}
	out, err := RenderElements(context.Background(), e, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("RenderElements: %v", err)
	}
	if !strings.Contains(string(out[FormatDOT]), `"1" [label="x"`) {
		t.Errorf("DOT = %s", out[FormatDOT])
	}
}
