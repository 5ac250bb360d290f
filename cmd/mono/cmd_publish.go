package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/toolchain"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish target packages with the configured tool",
		Long: "Run the configured package manager's publish step (tool.publish,\n" +
			"default: uv publish) in each target package. Dependencies publish\n" +
			"before their dependents.",
		RunE: runPublish,
	}
	addExecFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "List the publish order without publishing")
	return cmd
}

func runPublish(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	names, err := selectTargets(cmd, ws, g)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no packages selected")
		return nil
	}

	// Publishing is always topological: a dependent released before its
	// dependency would point at a version that does not exist yet.
	order, err := g.TopoOrder(names)
	if err != nil {
		return describeCycle(err)
	}

	if dryRun {
		out := cmd.OutOrStdout()
		for i, name := range order {
			fmt.Fprintf(out, "%d. %s\n", i+1, name)
		}
		return nil
	}

	tool := toolchain.New(ws.Config.Tool.Name)
	toolPath, err := tool.Path()
	if err != nil {
		return err
	}
	argv := append([]string{toolPath}, ws.Config.Tool.Publish...)

	plan, err := runner.Build(ws, g, order, true, func(*manifest.Descriptor) (runner.Command, bool) {
		return runner.Command{Argv: argv}, true
	})
	if err != nil {
		return err
	}
	// Always stop at the first failed publish.
	return executePlan(cmd, plan, ws.Config, true)
}
