package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/httputil"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/pipeline"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

// inputOpts holds the flags shared by commands that read a document.
type inputOpts struct {
	input   string // source format override: json, yaml
	depth   int    // container levels to expand, -1 for all
	noCache bool
	refresh bool
	watch   bool
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.input, "input", "", "input format: json, yaml (default: by file extension)")
	cmd.Flags().IntVarP(&o.depth, "depth", "d", int(tree.Unlimited), "container levels to expand (-1 expands everything)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results and rebuild")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "rebuild whenever the input file changes")
}

// resolve applies configuration defaults for flags the user did not set.
func (o *inputOpts) resolve(cmd *cobra.Command, c *CLI) {
	if !cmd.Flags().Changed("depth") {
		o.depth = c.Config.Depth
	}
}

// pipelineOptions validates the flags and reads stdin when input is "-".
func (o *inputOpts) pipelineOptions(input string, stdin io.Reader) (pipeline.Options, error) {
	if err := jgerrors.ValidateDepth(o.depth); err != nil {
		return pipeline.Options{}, err
	}
	format, err := jsongraph.ParseFormat(o.input)
	if err != nil {
		return pipeline.Options{}, err
	}
	if o.watch && (input == stdinPath || httputil.IsURL(input)) {
		return pipeline.Options{}, jgerrors.New(jgerrors.ErrCodeInvalidInput, "--watch needs a local file")
	}

	opts := pipeline.Options{
		Format:  format,
		Depth:   tree.Depth(o.depth),
		Refresh: o.refresh,
	}
	if input == stdinPath {
		if opts.Data, err = readStdin(input, stdin); err != nil {
			return pipeline.Options{}, err
		}
	} else {
		opts.Source = input
	}
	return opts, nil
}

// buildCommand creates the build command that writes the laid-out records.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		in     inputOpts
		output string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Lay out a JSON document as node and edge records",
		Long: `Lay out a JSON (or YAML) document as node and edge records.

Every value becomes a node and every object member or array element an edge
from its container. Nodes are placed 400 units apart per level and 20 units
apart per sibling. The output is a single JSON array with every node record
before every edge record, ready for a cytoscape-style renderer.

The input may be a file, an http(s) URL, or "-" for stdin. Results are cached, keyed by the
document's hash and the depth.`,
		Example: `  jsongraph build config.json
  jsongraph build -d 2 -o - config.json
  cat doc.yaml | jsongraph build --input yaml -o graph.json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.resolve(cmd, c)
			return c.runBuild(cmd, args[0], in, output, stats)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: <input>.graph.json)`)
	cmd.Flags().BoolVar(&stats, "stats", false, "print a summary table of the records")

	return cmd
}

// runBuild builds once and, with --watch, again on every change.
func (c *CLI) runBuild(cmd *cobra.Command, input string, in inputOpts, output string, stats bool) error {
	ctx := cmd.Context()
	opts, err := in.pipelineOptions(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	if output == "" {
		if input == stdinPath {
			output = stdinPath
		} else {
			output = inputStem(input) + ".graph.json"
		}
	}

	runner, err := c.newRunner(ctx, in.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	build := func(ctx context.Context) error {
		return c.buildOnce(ctx, runner, opts, output, stats, cmd.OutOrStdout())
	}
	if err := build(ctx); err != nil {
		return err
	}
	if !in.watch {
		return nil
	}

	printInfo("Watching %s for changes (Ctrl+C to stop)", input)
	return watchInput(ctx, input, watchDebounce, build)
}

func (c *CLI) buildOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string, stats bool, stdout io.Writer) error {
	prog := newProgress(loggerFromContext(ctx))

	sp := spin(ctx, "Building graph...")
	e, hit, err := runner.BuildWithCacheInfo(ctx, opts)
	sp.stop(err, "Build failed")
	if err != nil {
		return err
	}
	if sp.interrupted() {
		return ctx.Err()
	}

	if err := writeElements(e, output, stdout); err != nil {
		return err
	}
	prog.done("Built graph", "nodes", len(e.Nodes), "edges", len(e.Edges), "cached", hit)

	if output != stdinPath {
		printSuccess("Graph built")
		printFile(output)
	}
	printStats(len(e.Nodes), len(e.Edges), hit)
	if stats {
		fmt.Fprintln(uiOut, statsTable(graph.ComputeStats(e)))
	}
	if output != stdinPath {
		printNewline()
		printNextStep("Render", appName+" render --elements "+output)
	}
	return nil
}

// writeElements writes e to path, or to stdout when path is "-".
func writeElements(e graph.Elements, path string, stdout io.Writer) error {
	if path == stdinPath {
		return graph.WriteElements(e, stdout)
	}
	if err := graph.WriteElementsFile(e, path); err != nil {
		return jgerrors.Wrap(jgerrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// writeArtifact writes data to path, or to stdout when path is "-".
func writeArtifact(data []byte, path string, stdout io.Writer) error {
	if path == stdinPath {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return jgerrors.Wrap(jgerrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
