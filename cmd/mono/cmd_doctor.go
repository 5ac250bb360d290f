package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/gitx"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/toolchain"
	"github.com/fbkclanna/mono/internal/workspace"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the workspace and environment for common issues",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ok := true

	fmt.Fprint(out, "Checking git... ")
	if gitx.IsInstalled() {
		fmt.Fprintln(out, "found")
	} else {
		fmt.Fprintln(out, "NOT FOUND")
		fmt.Fprintln(out, "  git is required for change detection. Install it from https://git-scm.com/")
		ok = false
	}

	start, _ := cmd.Root().PersistentFlags().GetString("root")
	fmt.Fprint(out, "Checking workspace... ")
	root, err := config.FindRoot(start)
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(out, "no mono.yaml found (run 'mono init' to create one)")
			return finishDoctor(out, ok)
		}
		return err
	}
	fmt.Fprintln(out, root)

	fmt.Fprint(out, "Checking configuration... ")
	cfg, err := config.Load(root, nil)
	if err != nil {
		fmt.Fprintf(out, "INVALID\n  %v\n", err)
		return finishDoctor(out, false)
	}
	fmt.Fprintln(out, "ok")

	fmt.Fprintf(out, "Checking tool (%s)... ", cfg.Tool.Name)
	if path, err := toolchain.New(cfg.Tool.Name).Path(); err != nil {
		fmt.Fprintln(out, "NOT FOUND")
		fmt.Fprintf(out, "  bootstrap and publish need %s on PATH\n", cfg.Tool.Name)
		ok = false
	} else {
		fmt.Fprintln(out, path)
	}

	fmt.Fprint(out, "Checking packages... ")
	ws, err := workspace.Load(root, cfg)
	if err != nil {
		fmt.Fprintf(out, "FAILED\n  %v\n", err)
		return finishDoctor(out, false)
	}
	fmt.Fprintf(out, "%d found\n", len(ws.Packages))

	fmt.Fprint(out, "Checking dependency graph... ")
	if _, err := graph.New(ws.Packages).TopoOrder(nil); err != nil {
		var ce *graph.CycleError
		if errors.As(err, &ce) {
			fmt.Fprintf(out, "CYCLE\n  %v\n", ce)
			ok = false
		} else {
			return err
		}
	} else {
		fmt.Fprintln(out, "acyclic")
	}

	if gitx.IsInstalled() {
		fmt.Fprint(out, "Checking git repository... ")
		if gitx.IsRepo(root) {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "not a repository (change detection unavailable)")
		}
	}

	return finishDoctor(out, ok)
}

func finishDoctor(out io.Writer, ok bool) error {
	if ok {
		fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}
