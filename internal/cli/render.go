package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	inputOpts
	output     string   // output file (single format) or base path (multiple)
	formats    []string // json, dot, svg
	edgeLabels bool     // draw "parent - child" labels on edges
	scale      float64  // multiplier applied to record positions
	elements   bool     // input is a records file written by build
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document as a node-link diagram",
		Long: `Render a document as a node-link diagram.

The document is laid out exactly as by 'build' and drawn with Graphviz at the
computed positions. With --elements the input is a records file written by
'build' and is drawn without laying it out again.

Formats: svg (default), dot, json. Several formats may be given separated by
commas; outputs are then written next to each other as <base>.<format>.`,
		Example: `  jsongraph render config.json
  jsongraph render -f svg,dot -o out/config config.json
  jsongraph render --elements config.graph.json -o - -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve(cmd, c)
			opts.formats = parseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{c.Config.Render.Format}
			}
			if !cmd.Flags().Changed("edge-labels") {
				opts.edgeLabels = c.Config.Render.EdgeLabels
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = c.Config.Render.Scale
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (multiple), "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "label edges with their key path")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "scale factor applied to node positions")
	cmd.Flags().BoolVar(&opts.elements, "elements", false, "input is a records file written by build")

	return cmd
}

// runRender renders once and, with --watch, again on every change.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	popts, err := opts.pipelineOptions(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	popts.Formats = opts.formats
	popts.EdgeLabels = opts.edgeLabels
	popts.Scale = opts.scale
	popts.Logger = c.Logger

	paths, err := outputPaths(input, opts.output, opts.formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	render := func(ctx context.Context) error {
		return c.renderOnce(ctx, runner, popts, opts.elements, paths, cmd.OutOrStdout())
	}
	if err := render(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	printInfo("Watching %s for changes (Ctrl+C to stop)", input)
	return watchInput(ctx, input, watchDebounce, render)
}

func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, fromElements bool, paths map[string]string, stdout io.Writer) error {
	sp := spin(ctx, "Rendering...")

	artifacts, e, cached, err := renderArtifacts(ctx, runner, opts, fromElements)
	sp.stop(err, "Render failed")
	if err != nil {
		return err
	}
	if sp.interrupted() {
		return ctx.Err()
	}

	var written []string
	for _, format := range opts.Formats {
		path := paths[format]
		if err := writeArtifact(artifacts[format], path, stdout); err != nil {
			return err
		}
		if path != stdinPath {
			written = append(written, path)
		}
	}

	if len(written) > 0 {
		printSuccess("Rendered %d file(s)", len(written))
		for _, p := range written {
			printFile(p)
		}
	}
	printStats(len(e.Nodes), len(e.Edges), cached)
	return nil
}

// renderArtifacts runs the full pipeline, or only rendering when the input
// already holds records.
func renderArtifacts(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, fromElements bool) (map[string][]byte, graph.Elements, bool, error) {
	if !fromElements {
		res, err := runner.Execute(ctx, opts)
		if err != nil {
			return nil, graph.Elements{}, false, err
		}
		return res.Artifacts, res.Elements, res.CacheInfo.ElementsHit && res.CacheInfo.RenderHit, nil
	}

	data, err := pipeline.ReadInput(ctx, opts)
	if err != nil {
		return nil, graph.Elements{}, false, err
	}
	e, err := graph.UnmarshalElements(data)
	if err != nil {
		return nil, graph.Elements{}, false, jgerrors.Wrap(jgerrors.ErrCodeParse, err, "read records")
	}
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, e, opts)
	if err != nil {
		return nil, graph.Elements{}, false, err
	}
	return artifacts, e, hit, nil
}

// outputPaths maps each format to its destination. A single format goes to
// output as given; several formats share output as a base path.
func outputPaths(input, output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if output == stdinPath || (output == "" && input == stdinPath) {
		if len(formats) > 1 {
			return nil, jgerrors.New(jgerrors.ErrCodeInvalidInput, "several formats need an output base path (-o)")
		}
		paths[formats[0]] = stdinPath
		return paths, nil
	}

	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths, nil
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	for _, p := range paths {
		if p == input {
			return nil, jgerrors.New(jgerrors.ErrCodeInvalidPath, "output would overwrite the input %s", input)
		}
	}
	return paths, nil
}
