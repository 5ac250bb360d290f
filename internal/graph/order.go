package graph

import (
	"fmt"
	"sort"

	"github.com/fbkclanna/mono/internal/manifest"
)

// TopoOrder returns the packages in subset ordered so that every workspace
// dependency precedes its dependents. Edges leaving the subset are ignored;
// the missing endpoints need not exist in the graph. Ties are broken by
// ascending name, so the order is fully deterministic. A nil subset means
// all packages.
//
// If the induced subgraph contains a cycle, TopoOrder returns a *CycleError
// and no partial order.
func (g *Graph) TopoOrder(subset []string) ([]string, error) {
	set, err := g.induced(subset)
	if err != nil {
		return nil, err
	}

	// Kahn's algorithm: a package is ready once all of its in-subset
	// dependencies have been emitted. The ready pool is kept sorted and the
	// smallest name always goes first.
	pending := make(map[string]int, len(set))
	var ready []string
	for name := range set {
		n := 0
		for dep := range g.forward[name] {
			if set[dep] {
				n++
			}
		}
		pending[name] = n
		if n == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(set))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for dependent := range g.reverse[name] {
			if !set[dependent] {
				continue
			}
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = insertSorted(ready, dependent)
			}
		}
	}

	if len(order) < len(set) {
		return nil, &CycleError{Cycle: g.findCycle(set, pending)}
	}
	return order, nil
}

// Batches returns the subset grouped into dependency levels: every package
// in a batch has all of its in-subset dependencies in earlier batches, so
// the members of one batch may run concurrently. Batches are sorted
// internally, making the grouping deterministic.
func (g *Graph) Batches(subset []string) ([][]string, error) {
	set, err := g.induced(subset)
	if err != nil {
		return nil, err
	}

	pending := make(map[string]int, len(set))
	for name := range set {
		n := 0
		for dep := range g.forward[name] {
			if set[dep] {
				n++
			}
		}
		pending[name] = n
	}

	var batches [][]string
	emitted := 0
	for emitted < len(set) {
		var batch []string
		for name, n := range pending {
			if n == 0 {
				batch = append(batch, name)
			}
		}
		if len(batch) == 0 {
			return nil, &CycleError{Cycle: g.findCycle(set, pending)}
		}
		sort.Strings(batch)
		for _, name := range batch {
			delete(pending, name)
			for dependent := range g.reverse[name] {
				if _, ok := pending[dependent]; ok {
					pending[dependent]--
				}
			}
		}
		emitted += len(batch)
		batches = append(batches, batch)
	}
	return batches, nil
}

// Subgraph returns a new Graph restricted to the named members. Edges to
// packages outside names are dropped, mirroring how external dependencies
// are dropped at construction.
func (g *Graph) Subgraph(names []string) (*Graph, error) {
	set, err := g.induced(names)
	if err != nil {
		return nil, err
	}
	filtered := make(map[string]*manifest.Descriptor, len(set))
	for name := range set {
		filtered[name] = g.packages[name]
	}
	return New(filtered), nil
}

// induced validates a requested subset and returns it as a set. A nil subset
// selects every package.
func (g *Graph) induced(subset []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if subset == nil {
		for name := range g.packages {
			set[name] = true
		}
		return set, nil
	}
	for _, name := range subset {
		if _, ok := g.packages[name]; !ok {
			return nil, fmt.Errorf("package %q is not a workspace member", name)
		}
		set[name] = true
	}
	return set, nil
}

// findCycle locates a cycle among the nodes that Kahn's algorithm could not
// emit (pending > 0). Every such node sits on or downstream of a cycle, so a
// DFS over in-subset forward edges must close a loop. Nodes and edges are
// visited in sorted order so the reported cycle is deterministic.
func (g *Graph) findCycle(set map[string]bool, pending map[string]int) []string {
	remaining := make(map[string]bool)
	for name, n := range pending {
		if n > 0 {
			remaining[name] = true
		}
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	parent := make(map[string]string)
	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onStack[name] = true
		for _, dep := range sortedKeys(g.forward[name]) {
			if !remaining[dep] || !set[dep] {
				continue
			}
			if onStack[dep] {
				// Walk parents back to the entry node to reconstruct the loop.
				cycle = []string{dep}
				for cur := name; cur != dep; cur = parent[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{dep}, cycle...)
				return true
			}
			if !visited[dep] {
				parent[dep] = name
				if dfs(dep) {
					return true
				}
			}
		}
		onStack[name] = false
		return false
	}

	for _, name := range sortedKeys(remaining) {
		if !visited[name] && dfs(name) {
			return cycle
		}
	}
	return nil
}

func insertSorted(ss []string, s string) []string {
	i := sort.SearchStrings(ss, s)
	ss = append(ss, "")
	copy(ss[i+1:], ss[i:])
	ss[i] = s
	return ss
}
