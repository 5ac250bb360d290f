package gitx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// QueryError reports a failed git query with the command's stderr attached.
type QueryError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsInstalled reports whether git is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether dir is inside a git working tree.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// ChangedPaths returns the repository-relative paths that differ between
// baseRef and headRef, deduplicated and sorted. With an empty headRef the
// comparison targets the working tree: commits since the merge base
// (base...HEAD) plus staged, unstaged, and untracked files. The repository
// is never mutated, so identical inputs against identical state yield
// identical results.
func ChangedPaths(root, baseRef, headRef string) ([]string, error) {
	var queries [][]string
	if headRef == "" {
		queries = [][]string{
			{"diff", "--name-only", baseRef + "...HEAD"},
			{"diff", "--name-only", "--cached"},
			{"diff", "--name-only"},
			{"ls-files", "--others", "--exclude-standard"},
		}
	} else {
		queries = [][]string{
			{"diff", "--name-only", baseRef + "..." + headRef},
		}
	}

	seen := make(map[string]bool)
	var paths []string
	for _, args := range queries {
		out, err := output(root, args...)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			paths = append(paths, line)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// HeadCommit returns the full SHA of HEAD.
func HeadCommit(root string) (string, error) {
	out, err := output(root, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RefExists reports whether ref resolves in the repository.
func RefExists(root, ref string) bool {
	return run(root, "rev-parse", "--verify", "--quiet", ref+"^{commit}") == nil
}

// Tag creates an annotated tag.
func Tag(root, name, message string) error {
	return run(root, "tag", "-a", name, "-m", message)
}

// Tags lists tag names matching pattern (all tags when empty), sorted.
func Tags(root, pattern string) ([]string, error) {
	args := []string{"tag", "--list"}
	if pattern != "" {
		args = append(args, pattern)
	}
	out, err := output(root, args...)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Init runs git init in dir.
func Init(dir string) error {
	return run(dir, "init")
}

// Add stages the given paths.
func Add(dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return run(dir, args...)
}

// Commit records a commit with the given message. If no identity is
// configured, a repo-local fallback is set first.
func Commit(dir, message string) error {
	if err := ensureIdentity(dir); err != nil {
		return fmt.Errorf("setting commit identity: %w", err)
	}
	return run(dir, "commit", "-m", message)
}

func ensureIdentity(dir string) error {
	if _, err := output(dir, "config", "user.name"); err != nil {
		if err2 := run(dir, "config", "user.name", "mono"); err2 != nil {
			return err2
		}
	}
	if _, err := output(dir, "config", "user.email"); err != nil {
		if err2 := run(dir, "config", "user.email", "mono@localhost"); err2 != nil {
			return err2
		}
	}
	return nil
}

// run executes a git command, discarding stdout. Stderr is captured and
// attached to the error on failure.
func run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &QueryError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// output executes a git command and returns its stdout.
func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &QueryError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}
