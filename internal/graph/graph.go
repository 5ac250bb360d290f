// Package graph builds the workspace dependency graph and provides
// deterministic topological ordering, cycle detection, and transitive
// closure queries over it. A Graph is built once per invocation and is
// read-only afterwards.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fbkclanna/mono/internal/manifest"
)

// Graph is a directed dependency graph over workspace member packages.
// Nodes are keyed by normalized package name. An edge A->B means A depends
// on B. Dependency declarations that do not resolve to a member are dropped
// during construction, never stored.
type Graph struct {
	packages map[string]*manifest.Descriptor
	forward  map[string]map[string]bool // name -> names it depends on
	reverse  map[string]map[string]bool // name -> names depending on it
}

// CycleError reports a dependency cycle. Cycle lists the member packages in
// order, with the entry node repeated at the end, e.g. [a b a].
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New builds a Graph from the workspace package map. Keys must be normalized
// names (workspace.Load guarantees this).
func New(packages map[string]*manifest.Descriptor) *Graph {
	g := &Graph{
		packages: packages,
		forward:  make(map[string]map[string]bool, len(packages)),
		reverse:  make(map[string]map[string]bool, len(packages)),
	}
	for name := range packages {
		g.forward[name] = make(map[string]bool)
		g.reverse[name] = make(map[string]bool)
	}
	for name, desc := range packages {
		for _, dep := range desc.DependencyKeys() {
			if dep == name {
				continue // self-edges are meaningless, not cycles
			}
			if _, member := packages[dep]; !member {
				continue // external dependency, not graphed
			}
			g.forward[name][dep] = true
			g.reverse[dep][name] = true
		}
	}
	return g
}

// Package returns the descriptor for a normalized name.
func (g *Graph) Package(name string) (*manifest.Descriptor, bool) {
	d, ok := g.packages[name]
	return d, ok
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int { return len(g.packages) }

// Names returns all package names in ascending order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.packages))
	for name := range g.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the direct workspace dependencies of name, sorted.
func (g *Graph) Dependencies(name string) []string {
	return sortedKeys(g.forward[name])
}

// Dependents returns the packages that directly depend on name, sorted.
func (g *Graph) Dependents(name string) []string {
	return sortedKeys(g.reverse[name])
}

// TransitiveDependencies returns everything name depends on, directly or
// indirectly, sorted.
func (g *Graph) TransitiveDependencies(name string) []string {
	return g.closure(name, g.forward)
}

// TransitiveDependents returns everything that depends on name, directly or
// indirectly, sorted.
func (g *Graph) TransitiveDependents(name string) []string {
	return g.closure(name, g.reverse)
}

// Impacted expands a set of changed package names to the full set of
// impacted members: the changed packages themselves plus every transitive
// dependent. The result is sorted and always a superset of the input
// (restricted to members).
func (g *Graph) Impacted(changed []string) []string {
	impacted := make(map[string]bool)
	for _, name := range changed {
		if _, ok := g.packages[name]; !ok {
			continue
		}
		impacted[name] = true
		for _, dep := range g.TransitiveDependents(name) {
			impacted[dep] = true
		}
	}
	return sortedKeys(impacted)
}

// Roots returns packages with no workspace dependencies, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for name, deps := range g.forward {
		if len(deps) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns packages nothing depends on, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for name, dependents := range g.reverse {
		if len(dependents) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Adjacency returns the forward edge map as sorted slices, for display.
func (g *Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.forward))
	for name, deps := range g.forward {
		adj[name] = sortedKeys(deps)
	}
	return adj
}

func (g *Graph) closure(name string, edges map[string]map[string]bool) []string {
	seen := make(map[string]bool)
	stack := sortedKeys(edges[name])
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, sortedKeys(edges[n])...)
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
