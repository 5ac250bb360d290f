// Package runner selects target packages, arranges them into dependency-
// ordered batches, and executes a command across them with bounded
// parallelism.
package runner

import (
	"fmt"

	"github.com/fbkclanna/mono/internal/changes"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/manifest"
	"github.com/fbkclanna/mono/internal/workspace"
)

// Command is what gets executed in each package directory. Shell takes
// precedence: it is run via `sh -c` so script strings can use pipes and
// variables. Argv is a direct exec for tool invocations.
type Command struct {
	Shell string
	Argv  []string
	Env   []string // extra KEY=VALUE entries
}

func (c Command) display() string {
	if c.Shell != "" {
		return c.Shell
	}
	return fmt.Sprintf("%v", c.Argv)
}

// Task is a Command bound to a concrete package.
type Task struct {
	Package string
	Dir     string
	Command Command
}

// Plan is an ordered set of task batches. Tasks within a batch are mutually
// independent; a batch only runs after every earlier batch finished.
type Plan struct {
	Batches [][]Task
}

// Len returns the total number of tasks across all batches.
func (p *Plan) Len() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b)
	}
	return n
}

// Select resolves the target package names for a run. Scope filters by
// comma-separated name globs (empty selects everything); a non-empty since
// ref further restricts the set to packages impacted by changes since that
// ref.
func Select(ws *workspace.Workspace, g *graph.Graph, scope, since string) ([]string, error) {
	names, err := ws.MatchScope(scope)
	if err != nil {
		return nil, err
	}
	if since == "" {
		return names, nil
	}

	set, err := changes.Detect(ws, g, since, "")
	if err != nil {
		return nil, err
	}
	impacted := make(map[string]bool, len(set.Impacted))
	for _, name := range set.Impacted {
		impacted[name] = true
	}
	var selected []string
	for _, name := range names {
		if impacted[name] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// Build arranges the selected packages into batches running cmdFor's command
// in each. With topological ordering, batches follow the dependency graph
// restricted to the selection; otherwise everything lands in a single batch.
// cmdFor may return ok=false to skip a package (for example, a script the
// package does not define).
func Build(ws *workspace.Workspace, g *graph.Graph, names []string, topological bool, cmdFor func(*manifest.Descriptor) (Command, bool)) (*Plan, error) {
	var ordered [][]string
	if topological {
		batches, err := g.Batches(names)
		if err != nil {
			return nil, err
		}
		ordered = batches
	} else {
		ordered = [][]string{names}
	}

	plan := &Plan{}
	for _, batch := range ordered {
		var tasks []Task
		for _, name := range batch {
			desc, err := ws.Get(name)
			if err != nil {
				return nil, err
			}
			cmd, ok := cmdFor(desc)
			if !ok {
				continue
			}
			tasks = append(tasks, Task{Package: name, Dir: desc.Dir, Command: cmd})
		}
		if len(tasks) > 0 {
			plan.Batches = append(plan.Batches, tasks)
		}
	}
	return plan, nil
}
