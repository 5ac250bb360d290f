package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/changes"
	"github.com/fbkclanna/mono/internal/ui"
)

func newChangedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changed",
		Short: "Show packages affected by changes since a ref",
		RunE:  runChanged,
	}
	cmd.Flags().String("since", "HEAD~1", "Base ref for the comparison")
	cmd.Flags().String("until", "", "Head ref (defaults to the working tree)")
	cmd.Flags().Bool("no-dependents", false, "Report directly-changed packages only")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("names", false, "Print names only, one per line")
	return cmd
}

type changedInfo struct {
	Name   string   `json:"name"`
	Direct bool     `json:"direct"`
	Files  []string `json:"files,omitempty"`
}

func runChanged(cmd *cobra.Command, _ []string) error {
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	noDependents, _ := cmd.Flags().GetBool("no-dependents")
	asJSON, _ := cmd.Flags().GetBool("json")
	namesOnly, _ := cmd.Flags().GetBool("names")

	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	set, err := changes.Detect(ws, g, since, until)
	if err != nil {
		return err
	}

	names := set.Impacted
	if noDependents {
		var direct []string
		for _, name := range set.Impacted {
			if set.IsDirect(name) {
				direct = append(direct, name)
			}
		}
		names = direct
	}

	out := cmd.OutOrStdout()

	if namesOnly {
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	infos := make([]changedInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, changedInfo{
			Name:   name,
			Direct: set.IsDirect(name),
			Files:  set.Direct[name],
		})
	}

	if asJSON {
		return encodeJSON(out, infos)
	}

	tbl := ui.NewTable(out, "PACKAGE", "REASON", "FILES")
	for _, info := range infos {
		reason := "dependency changed"
		if info.Direct {
			reason = "changed"
		}
		tbl.Row(info.Name, reason, len(info.Files))
	}
	return tbl.Flush()
}
