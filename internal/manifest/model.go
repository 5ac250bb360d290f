package manifest

import "strings"

// Descriptor holds the metadata of a single member package, parsed from its
// package.toml. Descriptors are immutable after Load returns them.
type Descriptor struct {
	Name            string
	Version         string
	Description     string
	Dependencies    []string // raw specifiers, e.g. "core >=0.2"
	DevDependencies []string
	Scripts         map[string]string
	Dir             string // absolute path to the package root
}

// Key returns the normalized package name used as the graph/workspace key.
func (d *Descriptor) Key() string {
	return Normalize(d.Name)
}

// DependencyKeys returns the normalized names of all declared dependencies,
// runtime and dev, deduplicated. Whether a name refers to a workspace member
// is decided by the graph builder, not here.
func (d *Descriptor) DependencyKeys() []string {
	seen := make(map[string]bool, len(d.Dependencies)+len(d.DevDependencies))
	var keys []string
	for _, spec := range append(append([]string{}, d.Dependencies...), d.DevDependencies...) {
		key := DependencyName(spec)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// Script returns the package-level script command for name, if declared.
func (d *Descriptor) Script(name string) (string, bool) {
	cmd, ok := d.Scripts[name]
	return cmd, ok
}

// Normalize canonicalizes a package or dependency name so that declarations
// and manifests resolve by exact string match: lowercase, hyphens folded to
// underscores.
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// DependencyName extracts the bare package name from a dependency specifier
// and normalizes it.
//
//	"requests>=2.0"      -> "requests"
//	"numpy[extra]"       -> "numpy"
//	"my-pkg @ file://.." -> "my_pkg"
func DependencyName(spec string) string {
	if i := strings.IndexAny(spec, " @[<>=!~;"); i >= 0 {
		spec = spec[:i]
	}
	return Normalize(spec)
}
