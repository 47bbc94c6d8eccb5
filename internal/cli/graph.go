package cli

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackscope/pkg/errors"
	"github.com/matzehuels/stackscope/pkg/io"
	"github.com/matzehuels/stackscope/pkg/render/nodelink"
)

const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"

	defaultScale = 2.0 // PNG resolution multiplier
)

var graphFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	filterFlags
	format   string  // output format
	output   string  // output file (stdout when empty)
	detailed bool    // add directories to node labels
	scale    float64 // PNG scale
}

// graphCommand creates the graph command, which exports the selected
// sub-graph as JSON or renders it with Graphviz.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatJSON, scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph of the selected packages",
		Example: `  stackscope graph --filter "web..." > graph.json
  stackscope graph -F "...@acme/core" -f svg -o core.svg
  stackscope graph --prod -f dot | dot -Tpng > graph.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runGraph(cmd.Context(), cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(graphFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show project directories in rendered nodes")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return graphFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func validateFormat(format string) error {
	for _, f := range graphFormats {
		if format == f {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(graphFormats, ", "))
}

func runGraph(ctx context.Context, cmd *cobra.Command, opts *graphOpts) error {
	sel, err := opts.selectProjects(ctx, cmd)
	if err != nil {
		return err
	}
	g := sel.result.Selected
	logger := loggerFromContext(ctx)

	var data []byte
	if opts.format == formatJSON {
		var buf bytes.Buffer
		if err := io.WriteJSON(g, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		prog := newProgress(logger)
		dot := nodelink.ToDOT(g, nodelink.Options{
			Detailed: opts.detailed,
			Root:     sel.cfg.Root,
			Mask:     opts.mask(),
		})
		switch opts.format {
		case formatDOT:
			data = []byte(dot)
		case formatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case formatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case formatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
		}
		if err != nil {
			return err
		}
		prog.done("Rendered " + opts.format)
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote %d projects", g.Len())
	printFile(cmd.ErrOrStderr(), opts.output)
	return nil
}
