// Package toolchain locates and invokes the external package-manager
// binary (uv by default) that bootstrap and publish delegate to.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Tool is a resolved external command-line tool.
type Tool struct {
	Name string
	Env  []string // extra KEY=VALUE entries appended to the environment
}

// New returns a Tool for the named binary.
func New(name string) *Tool {
	return &Tool{Name: name}
}

// Path resolves the tool on PATH.
func (t *Tool) Path() (string, error) {
	path, err := exec.LookPath(t.Name)
	if err != nil {
		return "", fmt.Errorf("%s is not installed or not on PATH: %w", t.Name, err)
	}
	return path, nil
}

// Command builds an exec.Cmd running the tool in dir with the process
// environment plus t.Env. Stdout and stderr are left for the caller to wire.
func (t *Tool) Command(ctx context.Context, dir string, args ...string) (*exec.Cmd, error) {
	path, err := t.Path()
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), t.Env...)
	return cmd, nil
}

// Run executes the tool in dir, streaming output to the parent process.
func (t *Tool) Run(ctx context.Context, dir string, args ...string) error {
	cmd, err := t.Command(ctx, dir, args...)
	if err != nil {
		return err
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v in %s: %w", t.Name, args, dir, err)
	}
	return nil
}
