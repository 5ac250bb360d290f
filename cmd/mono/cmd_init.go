package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/mono/internal/config"
	"github.com/fbkclanna/mono/internal/gitx"
	"github.com/fbkclanna/mono/internal/manifest"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a mono.yaml workspace configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().StringSlice("packages", nil, "Package patterns (skips the interactive prompt)")
	cmd.Flags().Bool("force", false, "Overwrite an existing mono.yaml")
	cmd.Flags().Bool("no-git", false, "Skip git repository initialization")
	return cmd
}

// initConfig is the subset of the configuration written by init. Serialized
// explicitly so the generated file contains only what the user chose.
type initConfig struct {
	Name     string   `yaml:"name"`
	Packages []string `yaml:"packages"`
}

func runInit(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Root().PersistentFlags().GetString("root")
	patterns, _ := cmd.Flags().GetStringSlice("packages")
	force, _ := cmd.Flags().GetBool("force")
	noGit, _ := cmd.Flags().GetBool("no-git")

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	configPath := filepath.Join(absRoot, config.Filenames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	defaultName := filepath.Base(absRoot)
	name := defaultName
	if len(args) == 1 {
		name = args[0]
	}

	var firstPkg string
	switch {
	case len(patterns) > 0:
		// Non-interactive: everything came from flags and args.
	case term.IsTerminal(int(os.Stdin.Fd())):
		name, patterns, firstPkg, err = interactiveSetup(name)
		if err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	default:
		patterns = []string{"packages/*"}
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("workspace name is required")
	}

	data, err := yaml.Marshal(initConfig{Name: name, Packages: patterns})
	if err != nil {
		return fmt.Errorf("building configuration: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	if firstPkg != "" {
		if err := scaffoldPackage(absRoot, patterns[0], firstPkg); err != nil {
			return err
		}
	}

	if !noGit {
		initGitRepo(cmd, absRoot)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Workspace %q created at %s\n", name, configPath)
	return nil
}

// scaffoldPackage writes a minimal package.toml under the directory implied
// by the first package pattern (e.g. "packages/*" places it in packages/).
func scaffoldPackage(root, pattern, name string) error {
	base := filepath.Dir(pattern)
	if base == "." || strings.ContainsAny(base, "*?[") {
		base = "packages"
	}
	dir := filepath.Join(root, base, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}
	content := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\n", name)
	if err := os.WriteFile(filepath.Join(dir, manifest.Filename), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing package manifest: %w", err)
	}
	return nil
}

// initGitRepo initializes a git repository in the workspace directory.
// Errors are reported as warnings and do not prevent workspace creation.
func initGitRepo(cmd *cobra.Command, dir string) {
	if !gitx.IsInstalled() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: git is not installed; skipping git initialization")
		return
	}
	if gitx.IsRepo(dir) {
		return
	}
	if err := gitx.Init(dir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: git init failed: %v\n", err)
		return
	}
	if err := gitx.Add(dir, "."); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: git add failed: %v\n", err)
		return
	}
	if err := gitx.Commit(dir, "Initialize workspace"); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: git commit failed: %v\n", err)
	}
}
