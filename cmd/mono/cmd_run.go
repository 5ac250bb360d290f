package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/ui"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a named script across target packages",
		Long: "Run a script defined in mono.yaml across the selected packages.\n" +
			"A package may override the workspace script by defining one with the\n" +
			"same name in its package.toml; packages defining neither are skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	addExecFlags(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return listScripts(cmd, ws.Config)
	}
	scriptName := args[0]

	script, defined := ws.Config.Scripts[scriptName]
	names, err := selectTargets(cmd, ws, g)
	if err != nil {
		return err
	}
	if defined && script.Scope != "" && !cmd.Flags().Changed("scope") {
		names, err = runner.Select(ws, g, script.Scope, flagString(cmd, "since"))
		if err != nil {
			return err
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no packages selected")
		return nil
	}

	topological := ws.Config.Defaults.Topological
	if defined {
		topological = script.TopologicalOrDefault(ws.Config.Defaults)
	}
	topological = resolveTopological(cmd, topological)

	plan, err := runner.Build(ws, g, names, topological, func(d *manifest.Descriptor) (runner.Command, bool) {
		// Package-level script wins over the workspace definition.
		if local, ok := d.Script(scriptName); ok {
			return runner.Command{Shell: local, Env: envSlice(script.Env)}, true
		}
		if defined {
			return runner.Command{Shell: script.Run, Env: envSlice(script.Env)}, true
		}
		return runner.Command{}, false
	})
	if err != nil {
		return err
	}
	if plan.Len() == 0 {
		return fmt.Errorf("script %q is not defined in mono.yaml or any selected package", scriptName)
	}

	failFast := resolveFailFast(cmd, ws.Config)
	if defined && script.FailFast && !cmd.Flags().Changed("fail-fast") {
		failFast = true
	}
	return executePlan(cmd, plan, ws.Config, failFast)
}

func listScripts(cmd *cobra.Command, cfg *config.Config) error {
	if len(cfg.Scripts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no scripts defined in mono.yaml")
		return nil
	}
	names := make([]string, 0, len(cfg.Scripts))
	for name := range cfg.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := ui.NewTable(cmd.OutOrStdout(), "SCRIPT", "COMMAND", "DESCRIPTION")
	for _, name := range names {
		s := cfg.Scripts[name]
		tbl.Row(name, s.Run, s.Description)
	}
	return tbl.Flush()
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
