package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/workspace"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mono",
		Short:   "Monorepo orchestration for multi-package repositories",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			} else {
				slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			}
		},
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root (searched upward for mono.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging to stderr")

	cmd.AddCommand(
		newInitCmd(),
		newListCmd(),
		newGraphCmd(),
		newChangedCmd(),
		newExecCmd(),
		newRunCmd(),
		newBootstrapCmd(),
		newCleanCmd(),
		newVersionCmd(),
		newPublishCmd(),
		newDoctorCmd(),
	)

	return cmd
}

// openWorkspace resolves the workspace root from the --root flag, loads the
// configuration (layering the given command's flags on top), and discovers
// every member package.
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, *graph.Graph, error) {
	start, _ := cmd.Root().PersistentFlags().GetString("root")
	root, err := config.FindRoot(start)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(root, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.Load(root, cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("workspace loaded", "root", root, "packages", len(ws.Packages))
	return ws, graph.New(ws.Packages), nil
}
