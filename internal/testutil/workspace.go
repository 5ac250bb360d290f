// Package testutil builds throwaway git-backed workspaces for tests.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Pkg describes a member package to scaffold in a test workspace.
type Pkg struct {
	Dir     string // workspace-relative, e.g. "packages/core"
	Name    string
	Version string            // defaults to 0.1.0
	Deps    []string          // dependency specifiers
	Scripts map[string]string // optional package-level scripts
}

// NewWorkspace creates a git repository in a temp directory containing a
// mono.yaml (discovering packages/* and libs/*) and the given packages, all
// committed as "initial commit". Returns the workspace root.
func NewWorkspace(t *testing.T, pkgs ...Pkg) string {
	t.Helper()
	root := t.TempDir()

	config := "name: test-ws\npackages:\n  - \"packages/*\"\n  - \"libs/*\"\n"
	if err := os.WriteFile(filepath.Join(root, "mono.yaml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	for _, p := range pkgs {
		WritePackage(t, root, p)
	}

	Git(t, root, "init", "-b", "main")
	Git(t, root, "config", "user.email", "test@example.com")
	Git(t, root, "config", "user.name", "Test")
	Git(t, root, "add", ".")
	Git(t, root, "commit", "-m", "initial commit")
	return root
}

// WritePackage writes (or rewrites) a package.toml for p under root.
func WritePackage(t *testing.T, root string, p Pkg) {
	t.Helper()
	dir := filepath.Join(root, p.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	version := p.Version
	if version == "" {
		version = "0.1.0"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[package]\nname = %q\nversion = %q\n", p.Name, version)
	if len(p.Deps) > 0 {
		quoted := make([]string, len(p.Deps))
		for i, d := range p.Deps {
			quoted[i] = fmt.Sprintf("%q", d)
		}
		fmt.Fprintf(&b, "dependencies = [%s]\n", strings.Join(quoted, ", "))
	}
	if len(p.Scripts) > 0 {
		b.WriteString("\n[scripts]\n")
		for name, cmd := range p.Scripts {
			fmt.Fprintf(&b, "%s = %q\n", name, cmd)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "package.toml"), []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

// WriteFile writes content to a workspace-relative path, creating parents.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// CommitAll stages and commits everything in the workspace.
func CommitAll(t *testing.T, root, message string) {
	t.Helper()
	Git(t, root, "add", ".")
	Git(t, root, "commit", "-m", message)
}

// Git runs a git command in dir and fails the test on error.
func Git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

// Head returns the current HEAD SHA of the workspace repository.
func Head(t *testing.T, root string) string {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git rev-parse HEAD: %v", err)
	}
	return strings.TrimSpace(string(out))
}
