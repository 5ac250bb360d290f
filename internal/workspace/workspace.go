package workspace

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/manifest"
)

// Workspace holds the resolved root, the loaded configuration, and every
// discovered member package keyed by normalized name.
type Workspace struct {
	Root     string
	Config   *config.Config
	Packages map[string]*manifest.Descriptor
}

// DuplicateNameError reports two package directories declaring the same
// (normalized) package name.
type DuplicateNameError struct {
	Name      string
	FirstDir  string
	SecondDir string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate package name %q declared by both %s and %s", e.Name, e.FirstDir, e.SecondDir)
}

// NotMemberError reports a package name that does not resolve to a member.
type NotMemberError struct {
	Name      string
	Available []string
}

func (e *NotMemberError) Error() string {
	msg := fmt.Sprintf("package %q not found in workspace", e.Name)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (members: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// Load discovers and parses every member package under root. It fails on the
// first unreadable manifest or duplicate name; a partially-built workspace is
// never returned.
func Load(root string, cfg *config.Config) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	dirs, err := discover(abs, cfg.Packages, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	packages := make(map[string]*manifest.Descriptor, len(dirs))
	for _, dir := range dirs {
		desc, err := manifest.Load(dir)
		if err != nil {
			return nil, err
		}
		key := desc.Key()
		if prev, dup := packages[key]; dup {
			return nil, &DuplicateNameError{Name: key, FirstDir: prev.Dir, SecondDir: desc.Dir}
		}
		packages[key] = desc
	}

	return &Workspace{Root: abs, Config: cfg, Packages: packages}, nil
}

// Get resolves a package by name (normalization applied).
func (w *Workspace) Get(name string) (*manifest.Descriptor, error) {
	desc, ok := w.Packages[manifest.Normalize(name)]
	if !ok {
		return nil, &NotMemberError{Name: name, Available: w.Names()}
	}
	return desc, nil
}

// Names returns all member names in ascending order.
func (w *Workspace) Names() []string {
	names := make([]string, 0, len(w.Packages))
	for name := range w.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rel returns a package directory relative to the workspace root.
func (w *Workspace) Rel(dir string) string {
	rel, err := filepath.Rel(w.Root, dir)
	if err != nil {
		return dir
	}
	return rel
}

// MatchScope filters member names by a comma-separated list of names or glob
// patterns (matched against normalized names). An empty scope selects every
// member.
func (w *Workspace) MatchScope(scope string) ([]string, error) {
	if scope == "" {
		return w.Names(), nil
	}
	patterns := strings.Split(scope, ",")
	var selected []string
	for _, name := range w.Names() {
		for _, p := range patterns {
			p = manifest.Normalize(p)
			ok, err := filepath.Match(p, name)
			if err != nil {
				return nil, fmt.Errorf("bad scope pattern %q: %w", p, err)
			}
			if ok || p == name {
				selected = append(selected, name)
				break
			}
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("scope %q matches no workspace member", scope)
	}
	return selected, nil
}
