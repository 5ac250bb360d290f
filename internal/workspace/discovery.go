package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gitignore "github.com/sabhiram/go-gitignore"
)

// discover expands the package glob patterns under root and returns the
// package directories, deduplicated and sorted by workspace-relative path.
// A directory qualifies if it contains a package.toml and is not excluded
// by an ignore pattern.
func discover(root string, patterns, ignore []string) ([]string, error) {
	matcher := gitignore.CompileIgnoreLines(ignore...)

	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad package pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(match, "package.toml")); err != nil {
				continue
			}

			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", match, err)
			}
			if matcher.MatchesPath(rel) {
				continue
			}
			if seen[rel] {
				continue
			}
			seen[rel] = true
			dirs = append(dirs, match)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })
	return dirs, nil
}
