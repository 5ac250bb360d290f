package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/graph"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the package dependency graph",
		RunE:  runGraph,
	}
	cmd.Flags().Bool("topo", false, "Print a topological build order instead of edges")
	cmd.Flags().Bool("batches", false, "Print parallelizable batches in dependency order")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runGraph(cmd *cobra.Command, _ []string) error {
	topo, _ := cmd.Flags().GetBool("topo")
	batches, _ := cmd.Flags().GetBool("batches")
	asJSON, _ := cmd.Flags().GetBool("json")

	_, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch {
	case topo:
		order, err := g.TopoOrder(nil)
		if err != nil {
			return describeCycle(err)
		}
		if asJSON {
			return encodeJSON(out, order)
		}
		for _, name := range order {
			fmt.Fprintln(out, name)
		}
		return nil

	case batches:
		levels, err := g.Batches(nil)
		if err != nil {
			return describeCycle(err)
		}
		if asJSON {
			return encodeJSON(out, levels)
		}
		for i, level := range levels {
			fmt.Fprintf(out, "%d: %s\n", i+1, strings.Join(level, " "))
		}
		return nil

	default:
		adj := g.Adjacency()
		if asJSON {
			return encodeJSON(out, adj)
		}
		for _, name := range g.Names() {
			deps := adj[name]
			if len(deps) == 0 {
				fmt.Fprintln(out, name)
				continue
			}
			fmt.Fprintf(out, "%s -> %s\n", name, strings.Join(deps, ", "))
		}
		return nil
	}
}

// describeCycle keeps the cycle path visible when topological ordering fails.
func describeCycle(err error) error {
	var ce *graph.CycleError
	if errors.As(err, &ce) {
		return fmt.Errorf("cannot order packages: %w", ce)
	}
	return err
}

func encodeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
