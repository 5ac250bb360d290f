// Package changes computes which workspace packages are affected by a git
// diff: the packages whose files changed directly, expanded along reverse
// dependency edges so that everything depending on a changed package is
// flagged too.
package changes

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/fbkclanna/mono/internal/gitx"
	"github.com/fbkclanna/mono/internal/graph"
	"github.com/fbkclanna/mono/internal/workspace"
)

// Set is the result of change detection. Direct maps a package name to the
// changed files under its root; Impacted additionally contains every
// transitive dependent of a directly-changed package. Direct's keys are
// always a subset of Impacted.
type Set struct {
	Base     string
	Head     string // empty means working tree
	Direct   map[string][]string
	Impacted []string
}

// Names returns the full impacted set, sorted.
func (s *Set) Names() []string { return s.Impacted }

// IsDirect reports whether a package changed directly rather than through a
// dependency.
func (s *Set) IsDirect(name string) bool {
	_, ok := s.Direct[name]
	return ok
}

// Detect computes the ChangeSet between baseRef and headRef (working tree
// when headRef is empty). It queries git once and mutates nothing, so
// identical inputs against identical repository state produce identical
// sets.
func Detect(ws *workspace.Workspace, g *graph.Graph, baseRef, headRef string) (*Set, error) {
	paths, err := gitx.ChangedPaths(ws.Root, baseRef, headRef)
	if err != nil {
		return nil, err
	}

	direct := MatchPaths(ws, paths)
	changed := make([]string, 0, len(direct))
	for name := range direct {
		changed = append(changed, name)
	}

	return &Set{
		Base:     baseRef,
		Head:     headRef,
		Direct:   direct,
		Impacted: g.Impacted(changed),
	}, nil
}

// MatchPaths assigns repository-relative changed paths to their owning
// packages. A path belongs to the package with the longest root that is a
// true directory prefix of it; "foo-bar/x" never matches a package rooted at
// "foo". Paths owned by no package are dropped.
func MatchPaths(ws *workspace.Workspace, paths []string) map[string][]string {
	type pkgRoot struct {
		name string
		rel  string
	}
	roots := make([]pkgRoot, 0, len(ws.Packages))
	for name, desc := range ws.Packages {
		roots = append(roots, pkgRoot{name: name, rel: filepath.ToSlash(ws.Rel(desc.Dir))})
	}
	// Longest root first so nested packages claim their own files.
	sort.Slice(roots, func(i, j int) bool {
		if len(roots[i].rel) != len(roots[j].rel) {
			return len(roots[i].rel) > len(roots[j].rel)
		}
		return roots[i].rel < roots[j].rel
	})

	direct := make(map[string][]string)
	for _, p := range paths {
		p = filepath.ToSlash(p)
		for _, r := range roots {
			if p == r.rel || strings.HasPrefix(p, r.rel+"/") {
				direct[r.name] = append(direct[r.name], p)
				break
			}
		}
	}
	for name := range direct {
		sort.Strings(direct[name])
	}
	return direct
}
