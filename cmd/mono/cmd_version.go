package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/gitx"
	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/semver"
	"github.com/fbkclanna/mono/internal/ui"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Bump or set package versions",
		Long: "Rewrite the version field of each target package's manifest.\n" +
			"With --since, only packages impacted by changes since the ref are\n" +
			"versioned. Tags are created per package as <name>@<version>.",
		RunE: runVersion,
	}
	cmd.Flags().String("bump", "", "Version component to bump: major, minor, or patch")
	cmd.Flags().String("set", "", "Explicit version to apply to every target")
	cmd.Flags().String("scope", "", "Filter by comma-separated name globs")
	cmd.Flags().String("since", "", "Only packages impacted by changes since this ref")
	cmd.Flags().Bool("tag", false, "Create an annotated git tag per versioned package")
	cmd.Flags().Bool("commit", false, "Commit the rewritten manifests")
	cmd.Flags().Bool("dry-run", false, "Show the new versions without writing anything")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	bumpFlag, _ := cmd.Flags().GetString("bump")
	setFlag, _ := cmd.Flags().GetString("set")
	tag, _ := cmd.Flags().GetBool("tag")
	commit, _ := cmd.Flags().GetBool("commit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if (bumpFlag == "") == (setFlag == "") {
		return fmt.Errorf("exactly one of --bump or --set is required")
	}
	if setFlag != "" && !semver.IsValid(setFlag) {
		return fmt.Errorf("invalid version %q", setFlag)
	}
	var bump semver.Bump
	if bumpFlag != "" {
		var err error
		if bump, err = semver.ParseBump(bumpFlag); err != nil {
			return err
		}
	}

	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	scope, _ := cmd.Flags().GetString("scope")
	since, _ := cmd.Flags().GetString("since")
	names, err := runner.Select(ws, g, scope, since)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no packages selected")
		return nil
	}

	type change struct {
		desc *manifest.Descriptor
		next string
	}
	plan := make([]change, 0, len(names))
	for _, name := range names {
		desc, err := ws.Get(name)
		if err != nil {
			return err
		}
		next := setFlag
		if next == "" {
			if next, err = semver.Next(desc.Version, bump); err != nil {
				return fmt.Errorf("package %s: %w", name, err)
			}
		}
		plan = append(plan, change{desc: desc, next: next})
	}

	out := cmd.OutOrStdout()
	tbl := ui.NewTable(out, "PACKAGE", "FROM", "TO")
	for _, c := range plan {
		tbl.Row(c.desc.Key(), c.desc.Version, c.next)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	var manifestPaths []string
	for _, c := range plan {
		if err := manifest.SetVersion(c.desc.Dir, c.next); err != nil {
			return fmt.Errorf("package %s: %w", c.desc.Key(), err)
		}
		manifestPaths = append(manifestPaths, ws.Rel(c.desc.Dir)+"/"+manifest.Filename)
	}

	if commit {
		if err := gitx.Add(ws.Root, manifestPaths...); err != nil {
			return err
		}
		if err := gitx.Commit(ws.Root, versionCommitMessage(plan[0].next, len(plan))); err != nil {
			return err
		}
	}

	if tag {
		if !commit && !gitx.IsRepo(ws.Root) {
			return fmt.Errorf("--tag requires a git repository at %s", ws.Root)
		}
		for _, c := range plan {
			name := fmt.Sprintf("%s@%s", c.desc.Key(), c.next)
			if err := gitx.Tag(ws.Root, name, "release "+name); err != nil {
				return err
			}
			fmt.Fprintf(out, "tagged %s\n", name)
		}
	}
	return nil
}

func versionCommitMessage(version string, count int) string {
	if count == 1 {
		return fmt.Sprintf("release: version %s", version)
	}
	return fmt.Sprintf("release: version %d packages", count)
}
