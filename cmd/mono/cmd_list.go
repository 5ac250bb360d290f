package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/ui"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspace packages",
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("names", false, "Print names only, one per line")
	cmd.Flags().String("scope", "", "Filter by comma-separated name globs")
	cmd.Flags().String("since", "", "Only packages impacted by changes since this ref")
	return cmd
}

type packageInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Path         string   `json:"path"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	namesOnly, _ := cmd.Flags().GetBool("names")
	scope, _ := cmd.Flags().GetString("scope")
	since, _ := cmd.Flags().GetString("since")

	ws, g, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	names, err := runner.Select(ws, g, scope, since)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if namesOnly {
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	infos := make([]packageInfo, 0, len(names))
	for _, name := range names {
		desc, err := ws.Get(name)
		if err != nil {
			return err
		}
		infos = append(infos, packageInfo{
			Name:         name,
			Version:      desc.Version,
			Path:         ws.Rel(desc.Dir),
			Dependencies: g.Dependencies(name),
		})
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tbl := ui.NewTable(out, "PACKAGE", "VERSION", "PATH", "DEPENDS ON")
	for _, info := range infos {
		deps := "-"
		if len(info.Dependencies) > 0 {
			deps = fmt.Sprintf("%v", info.Dependencies)
		}
		tbl.Row(info.Name, info.Version, info.Path, deps)
	}
	return tbl.Flush()
}
