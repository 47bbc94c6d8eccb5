package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// listOpts holds the command-line flags for the list command.
type listOpts struct {
	filterFlags
	json      bool // print a JSON array
	parseable bool // print absolute directories only
}

type listedProject struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path"`
}

// listCommand creates the list command, which prints the selected projects.
func (c *CLI) listCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the selected workspace packages",
		Example: `  stackscope list --filter "@acme/web..."
  stackscope list --filter "...[origin/main]" --json
  stackscope list -F "./apps/*" -F "!./apps/legacy" --parseable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the selection as JSON")
	cmd.Flags().BoolVarP(&opts.parseable, "parseable", "p", false, "print project directories only")

	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts *listOpts) error {
	sel, err := opts.selectProjects(ctx, cmd)
	if err != nil {
		return err
	}
	g := sel.result.Selected
	out := cmd.OutOrStdout()

	switch {
	case opts.json:
		listed := make([]listedProject, g.Len())
		for i := range g.Len() {
			p := g.Project(i)
			listed[i] = listedProject{Name: p.Name(), Version: p.Version(), Path: p.Dir}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(listed); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case opts.parseable:
		for i := range g.Len() {
			fmt.Fprintln(out, g.ID(i))
		}
	default:
		for i := range g.Len() {
			p := g.Project(i)
			printProject(out, p.String(), relDir(sel.cfg.Root, p.Dir))
		}
		printStats(cmd.ErrOrStderr(), g.Len(), sel.result.AllProjects.Len(), g.EdgeCount())
	}
	return nil
}
