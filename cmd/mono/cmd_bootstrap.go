package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/toolchain"
	"github.com/fbkclanna/mono/internal/workspace"
)

func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Install dependencies in every target package",
		Long: "Run the configured package manager's install step (tool.bootstrap,\n" +
			"default: uv sync) in each target package, in dependency order.",
		RunE: runBootstrap,
	}
	addExecFlags(cmd)
	return cmd
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	tool := toolchain.New(ws.Config.Tool.Name)
	toolPath, err := tool.Path()
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

	argv := append([]string{toolPath}, ws.Config.Tool.Bootstrap...)
	topological := resolveTopological(cmd, ws.Config.Defaults.Topological)
	plan, err := runner.Build(ws, g, names, topological, func(*manifest.Descriptor) (runner.Command, bool) {
		return runner.Command{Argv: argv}, true
	})
	if err != nil {
		return err
	}

	if err := executePlan(cmd, plan, ws.Config, resolveFailFast(cmd, ws.Config)); err != nil {
		return err
	}
	return runPostBootstrap(cmd, ws, g, names)
}

// runPostBootstrap runs the optional post-bootstrap workspace script across
// the packages that were just bootstrapped.
func runPostBootstrap(cmd *cobra.Command, ws *workspace.Workspace, g *graph.Graph, names []string) error {
	hook, ok := ws.Config.Scripts["post-bootstrap"]
	if !ok {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "running post-bootstrap")
	plan, err := runner.Build(ws, g, names, hook.TopologicalOrDefault(ws.Config.Defaults), func(*manifest.Descriptor) (runner.Command, bool) {
		return runner.Command{Shell: hook.Run, Env: envSlice(hook.Env)}, true
	})
	if err != nil {
		return err
	}
	return executePlan(cmd, plan, ws.Config, hook.FailFast)
}
