package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/runner"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec -- <command...>",
		Short: "Run an arbitrary command in every target package",
		RunE:  runExec,
	}
	addExecFlags(cmd)
	return cmd
}

func runExec(cmd *cobra.Command, args []string) error {
	at := cmd.ArgsLenAtDash()
	if at < 0 || at == len(args) {
		return fmt.Errorf("usage: mono exec [flags] -- <command...>")
	}
	argv := args[at:]

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

	topological := resolveTopological(cmd, ws.Config.Defaults.Topological)
	plan, err := runner.Build(ws, g, names, topological, func(*manifest.Descriptor) (runner.Command, bool) {
		return runner.Command{Argv: argv}, true
	})
	if err != nil {
		return err
	}

	return executePlan(cmd, plan, ws.Config, resolveFailFast(cmd, ws.Config))
}
