package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/ui"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts and caches from target packages",
		RunE:  runClean,
	}
	cmd.Flags().String("scope", "", "Filter by comma-separated name globs")
	cmd.Flags().Bool("dry-run", false, "Show what would be removed without removing it")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	scope, _ := cmd.Flags().GetString("scope")

	ws, _, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	names, err := ws.MatchScope(scope)
	if err != nil {
		return err
	}

	protected := make(map[string]bool, len(ws.Config.Clean.Protected))
	for _, p := range ws.Config.Clean.Protected {
		protected[p] = true
	}

	out := cmd.OutOrStdout()
	removed := 0
	for _, name := range names {
		desc, err := ws.Get(name)
		if err != nil {
			return err
		}
		matches, err := collectCleanTargets(desc.Dir, ws.Config.Clean.Patterns, protected)
		if err != nil {
			return err
		}
		for _, path := range matches {
			rel := ws.Rel(path)
			if dryRun {
				fmt.Fprintf(out, "would remove %s\n", rel)
				removed++
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("removing %s: %w", rel, err)
			}
			fmt.Fprintf(out, "removed %s\n", rel)
			removed++
		}
	}
	if removed == 0 {
		fmt.Fprintln(out, ui.Dim("nothing to clean"))
	}
	return nil
}

// collectCleanTargets walks a package directory gathering paths matching the
// clean patterns. Protected directories are never entered or matched.
func collectCleanTargets(dir string, patterns []string, protected map[string]bool) ([]string, error) {
	var targets []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if protected[base] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		for _, pattern := range patterns {
			ok, matchErr := filepath.Match(pattern, base)
			if matchErr != nil {
				return fmt.Errorf("bad clean pattern %q: %w", pattern, matchErr)
			}
			if ok {
				targets = append(targets, path)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		return nil
	})
	return targets, err
}
