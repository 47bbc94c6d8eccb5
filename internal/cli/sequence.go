package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/errors"
	"github.com/matzehuels/stackscope/pkg/filter"
	"github.com/matzehuels/stackscope/pkg/io"
	"github.com/matzehuels/stackscope/pkg/selector"
	"github.com/matzehuels/stackscope/pkg/sequence"
)

// sequenceOpts holds the command-line flags for the sequence command.
type sequenceOpts struct {
	filterFlags
	json        bool   // print chunks as JSON
	failOnCycle bool   // treat cycles as an error
	input       string // graph exported by "stackscope graph" instead of a workspace scan
}

// sequenceCommand creates the sequence command, which orders the selected
// projects into batches that can run in parallel.
func (c *CLI) sequenceCommand() *cobra.Command {
	var opts sequenceOpts

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Order the selected packages into parallel batches",
		Long: `Order the selected packages so that every package comes after its
dependencies. Packages in the same batch do not depend on each other and
can be processed in parallel.

Dependency cycles are reported as warnings; use --fail-on-cycle to make
them an error.`,
		Example: `  stackscope sequence --filter "...[origin/main]"
  stackscope sequence --prod --json
  stackscope sequence --input graph.json --filter "web..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(cmd.Context(), cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the batches as JSON")
	cmd.Flags().BoolVar(&opts.failOnCycle, "fail-on-cycle", false, "fail when the selection contains a dependency cycle")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "sequence a graph JSON file instead of scanning the workspace")

	return cmd
}

type sequenceJSON struct {
	Chunks [][]string `json:"chunks"`
	Safe   bool       `json:"safe"`
	Cycles [][]string `json:"cycles,omitempty"`
}

func runSequence(ctx context.Context, cmd *cobra.Command, opts *sequenceOpts) error {
	var (
		g       *dag.Graph
		indices []int
		err     error
	)
	if opts.input != "" {
		g, indices, err = opts.selectFromFile(ctx, cmd)
	} else {
		var sel *selection
		sel, err = opts.selectProjects(ctx, cmd)
		if sel != nil {
			g, indices = sel.result.AllProjects, sel.result.Indices
		}
	}
	if err != nil {
		return err
	}

	res := sequence.Sequence(g, indices, opts.mask())
	out := cmd.OutOrStdout()

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sequenceJSON{Chunks: res.Chunks, Safe: res.Safe, Cycles: res.Cycles}); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	} else {
		for n, chunk := range res.Chunks {
			printChunk(out, n+1, labels(g, chunk))
		}
	}

	for _, cycle := range res.Cycles {
		printWarning(cmd.ErrOrStderr(), "Dependency cycle: %s", strings.Join(labels(g, cycle), " ↔ "))
	}
	if !res.Safe && opts.failOnCycle {
		return errors.New(errors.ErrCodeCycleDetected, "%d dependency cycle(s) in the selection", len(res.Cycles))
	}
	return nil
}

// selectFromFile loads an exported graph and applies the selectors to it.
func (o *sequenceOpts) selectFromFile(ctx context.Context, cmd *cobra.Command) (*dag.Graph, []int, error) {
	g, err := io.ImportJSON(o.input)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load %s", o.input)
	}
	prefix, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", o.dir)
	}
	selectors, err := selector.ParseAll(o.filters, o.prodFilters, prefix)
	if err != nil {
		return nil, nil, err
	}

	indices, unmatched, err := filter.FilterGraph(ctx, g, selectors, filter.Options{
		WorkspaceDir:              prefix,
		DirGlobFiltering:          o.dirGlob,
		TestPattern:               o.testPattern,
		ChangedFilesIgnorePattern: o.ignorePattern,
		FailIfNoMatch:             o.failNoMatch,
		Changes:                   o.changesProvider(),
		Logger:                    loggerFromContext(ctx).Debugf,
	})
	for _, token := range unmatched {
		printWarning(cmd.ErrOrStderr(), "No projects matched the filter %q", token)
	}
	if err != nil {
		return nil, nil, err
	}
	return g, indices, nil
}

// labels maps project directories to name@version labels.
func labels(g *dag.Graph, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id
		if n, ok := g.Index(id); ok {
			out[i] = g.Project(n).String()
		}
	}
	return out
}
