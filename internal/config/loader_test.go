package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono.yaml"), []byte(content), 0644))
}

const minimal = `
name: acme
packages:
  - "packages/*"
`

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimal)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Name)
	assert.Equal(t, []string{"packages/*"}, cfg.Packages)
	assert.Equal(t, 4, cfg.Defaults.Jobs)
	assert.True(t, cfg.Defaults.Topological)
	assert.False(t, cfg.Defaults.FailFast)
	assert.Equal(t, "uv", cfg.Tool.Name)
	assert.Equal(t, []string{"sync"}, cfg.Tool.Bootstrap)
	assert.Contains(t, cfg.Clean.Protected, ".git")
}

func TestLoad_fileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
name: acme
packages: ["libs/*", "apps/*"]
ignore: ["**/experimental*"]
defaults:
  jobs: 8
  fail_fast: true
tool:
  name: npm
  bootstrap: ["install"]
`)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Defaults.Jobs)
	assert.True(t, cfg.Defaults.FailFast)
	assert.Equal(t, "npm", cfg.Tool.Name)
	assert.Equal(t, []string{"install"}, cfg.Tool.Bootstrap)
	assert.Equal(t, []string{"**/experimental*"}, cfg.Ignore)
}

func TestLoad_scriptForms(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
name: acme
packages: ["packages/*"]
scripts:
  test: "pytest -x"
  lint:
    run: "ruff check ."
    description: "static checks"
    fail_fast: true
    topological: false
`)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	require.Contains(t, cfg.Scripts, "test")
	assert.Equal(t, "pytest -x", cfg.Scripts["test"].Run)
	assert.Nil(t, cfg.Scripts["test"].Topological)
	assert.True(t, cfg.Scripts["test"].TopologicalOrDefault(cfg.Defaults))

	lint := cfg.Scripts["lint"]
	assert.Equal(t, "ruff check .", lint.Run)
	assert.True(t, lint.FailFast)
	require.NotNil(t, lint.Topological)
	assert.False(t, lint.TopologicalOrDefault(cfg.Defaults))
}

func TestLoad_envOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimal)
	t.Setenv("MONO_NAME", "from-env")

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
}

func TestLoad_flagOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimal)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs", 4, "")
	flags.Bool("fail-fast", false, "")
	require.NoError(t, flags.Parse([]string{"--jobs", "2", "--fail-fast"}))

	cfg, err := Load(dir, flags)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Defaults.Jobs)
	assert.True(t, cfg.Defaults.FailFast)
}

func TestLoad_unsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: acme\npackages: [\"p/*\"]\ndefaults:\n  jobs: 6\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs", 4, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(dir, flags)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Defaults.Jobs)
}

func TestLoad_validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "packages: [\"p/*\"]\n"},
		{"missing packages", "name: acme\n"},
		{"absolute pattern", "name: acme\npackages: [\"/etc/*\"]\n"},
		{"escaping pattern", "name: acme\npackages: [\"../other/*\"]\n"},
		{"jobs out of range", "name: acme\npackages: [\"p/*\"]\ndefaults:\n  jobs: 99\n"},
		{"script without run", "name: acme\npackages: [\"p/*\"]\nscripts:\n  broken:\n    description: no run\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir, nil)
			assert.Error(t, err)
		})
	}
}

func TestFindRoot(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimal)
	nested := filepath.Join(dir, "packages", "core", "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestFindRoot_notFound(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
