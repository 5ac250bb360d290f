package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/testutil"
	"github.com/fbkclanna/mono/internal/workspace"
)

func loadWorkspace(t *testing.T, root string) (*workspace.Workspace, *graph.Graph) {
	t.Helper()
	cfg, err := config.Load(root, nil)
	require.NoError(t, err)
	ws, err := workspace.Load(root, cfg)
	require.NoError(t, err)
	return ws, graph.New(ws.Packages)
}

func shellFor(cmd string) func(*manifest.Descriptor) (Command, bool) {
	return func(*manifest.Descriptor) (Command, bool) {
		return Command{Shell: cmd}, true
	}
}

func TestBuild_topologicalBatches(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
		testutil.Pkg{Dir: "packages/cli", Name: "cli", Deps: []string{"api"}},
		testutil.Pkg{Dir: "packages/docs", Name: "docs"},
	)
	ws, g := loadWorkspace(t, root)

	plan, err := Build(ws, g, ws.Names(), true, shellFor("true"))
	require.NoError(t, err)

	require.Len(t, plan.Batches, 3)
	assert.Equal(t, []string{"core", "docs"}, taskNames(plan.Batches[0]))
	assert.Equal(t, []string{"api"}, taskNames(plan.Batches[1]))
	assert.Equal(t, []string{"cli"}, taskNames(plan.Batches[2]))
	assert.Equal(t, 4, plan.Len())
}

func TestBuild_flat(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
	)
	ws, g := loadWorkspace(t, root)

	plan, err := Build(ws, g, ws.Names(), false, shellFor("true"))
	require.NoError(t, err)
	require.Len(t, plan.Batches, 1)
	assert.Equal(t, []string{"api", "core"}, taskNames(plan.Batches[0]))
}

func TestBuild_skipsPackagesWithoutCommand(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core", Scripts: map[string]string{"lint": "true"}},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
	)
	ws, g := loadWorkspace(t, root)

	plan, err := Build(ws, g, ws.Names(), true, func(d *manifest.Descriptor) (Command, bool) {
		cmd, ok := d.Scripts["lint"]
		return Command{Shell: cmd}, ok
	})
	require.NoError(t, err)
	require.Equal(t, 1, plan.Len())
	assert.Equal(t, "core", plan.Batches[0][0].Package)
}

func TestSelect_sinceRestrictsToImpacted(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
		testutil.Pkg{Dir: "packages/docs", Name: "docs"},
	)
	ws, g := loadWorkspace(t, root)
	base := testutil.Head(t, root)

	testutil.WriteFile(t, root, "packages/core/a.py", "a\n")
	testutil.CommitAll(t, root, "change core")

	names, err := Select(ws, g, "", base)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "core"}, names)
}

func TestExecutor_runsEverything(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
	)
	ws, g := loadWorkspace(t, root)
	plan, err := Build(ws, g, ws.Names(), true, shellFor("echo hello"))
	require.NoError(t, err)

	exec := &Executor{Jobs: 2}
	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	assert.True(t, summary.Ok())
	for _, r := range summary.Results {
		assert.Equal(t, StatusSuccess, r.Status)
		assert.Contains(t, string(r.Output), "hello")
	}
}

func TestExecutor_failFastSkipsLaterBatches(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
		testutil.Pkg{Dir: "packages/cli", Name: "cli", Deps: []string{"api"}},
	)
	ws, g := loadWorkspace(t, root)
	plan, err := Build(ws, g, ws.Names(), true, shellFor("false"))
	require.NoError(t, err)

	exec := &Executor{Jobs: 2, FailFast: true}
	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, summary.Results, 3)
	assert.False(t, summary.Ok())
	assert.Equal(t, []string{"core"}, summary.Failed())

	statuses := map[string]Status{}
	for _, r := range summary.Results {
		statuses[r.Package] = r.Status
	}
	assert.Equal(t, StatusFailure, statuses["core"])
	assert.Equal(t, StatusSkipped, statuses["api"])
	assert.Equal(t, StatusSkipped, statuses["cli"])
}

func TestExecutor_keepGoingRunsAllBatches(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
	)
	ws, g := loadWorkspace(t, root)
	plan, err := Build(ws, g, ws.Names(), true, shellFor("false"))
	require.NoError(t, err)

	exec := &Executor{Jobs: 1}
	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "api"}, summary.Failed())
	for _, r := range summary.Results {
		assert.NotZero(t, r.ExitCode)
	}
}

func TestExecutor_reportsExitCode(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	ws, g := loadWorkspace(t, root)
	plan, err := Build(ws, g, ws.Names(), true, shellFor("exit 3"))
	require.NoError(t, err)

	exec := &Executor{Jobs: 1}
	summary, err := exec.Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 3, summary.Results[0].ExitCode)
}

func TestExecutor_onResultCallback(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	ws, g := loadWorkspace(t, root)
	plan, err := Build(ws, g, ws.Names(), true, shellFor("true"))
	require.NoError(t, err)

	var seen []string
	exec := &Executor{Jobs: 1, OnResult: func(r Result) { seen = append(seen, r.Package) }}
	_, err = exec.Run(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, seen)
}

func taskNames(tasks []Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Package
	}
	return names
}
