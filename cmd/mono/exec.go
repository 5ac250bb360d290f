package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/runner"
	"github.com/fbkclanna/mono/internal/ui"
	"github.com/fbkclanna/mono/internal/workspace"
)

// addExecFlags registers the flags shared by every command that fans a task
// out across packages.
func addExecFlags(cmd *cobra.Command) {
	cmd.Flags().String("scope", "", "Filter by comma-separated name globs")
	cmd.Flags().String("since", "", "Only packages impacted by changes since this ref")
	cmd.Flags().Bool("all", false, "Select every package, ignoring --scope and --since")
	cmd.Flags().Int("jobs", 4, "Maximum tasks in flight")
	cmd.Flags().Bool("fail-fast", false, "Stop scheduling after the first failure")
	cmd.Flags().Bool("no-topo", false, "Ignore dependency order, run everything in one batch")
}

// executePlan runs a plan with progress output and turns failures into a
// command error after printing each failed task's output.
func executePlan(cmd *cobra.Command, plan *runner.Plan, cfg *config.Config, failFast bool) error {
	out := cmd.OutOrStdout()
	progress := ui.NewProgress(out, plan.Len())

	exec := &runner.Executor{
		Jobs:     cfg.Defaults.Jobs,
		FailFast: failFast,
		Env:      envSlice(cfg.Env),
		OnResult: func(r runner.Result) {
			switch r.Status {
			case runner.StatusSuccess:
				progress.Done(r.Package, r.Duration)
			case runner.StatusFailure:
				progress.Failed(r.Package, fmt.Sprintf("exit %d", r.ExitCode))
			default:
				progress.Skipped(r.Package)
			}
		},
	}

	summary, err := exec.Run(cmd.Context(), plan)
	if err != nil {
		return err
	}

	if failed := summary.Failed(); len(failed) > 0 {
		for _, r := range summary.Results {
			if r.Status != runner.StatusFailure || len(r.Output) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s %s\n%s", ui.Fail("---"), r.Package, r.Output)
		}
		return fmt.Errorf("%d of %d packages failed: %s", len(failed), plan.Len(), strings.Join(failed, ", "))
	}
	return nil
}

func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	kv := make([]string, 0, len(env))
	for k, v := range env {
		kv = append(kv, k+"="+v)
	}
	sort.Strings(kv)
	return kv
}

// resolveFailFast layers the flag over the workspace default.
func resolveFailFast(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("fail-fast") {
		v, _ := cmd.Flags().GetBool("fail-fast")
		return v
	}
	return cfg.Defaults.FailFast
}

// resolveTopological layers --no-topo over the workspace default.
func resolveTopological(cmd *cobra.Command, fallback bool) bool {
	if noTopo, _ := cmd.Flags().GetBool("no-topo"); noTopo {
		return false
	}
	return fallback
}

// selectTargets resolves the selection flags into target package names.
func selectTargets(cmd *cobra.Command, ws *workspace.Workspace, g *graph.Graph) ([]string, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return ws.Names(), nil
	}
	scope, _ := cmd.Flags().GetString("scope")
	since, _ := cmd.Flags().GetString("since")
	return runner.Select(ws, g, scope, since)
}
