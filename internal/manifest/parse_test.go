package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`
[package]
name = "my-api"
version = "1.2.0"
description = "HTTP layer"
dependencies = ["core >=0.2", "requests>=2.0"]
dev-dependencies = ["pytest"]

[scripts]
test = "pytest -x"
`)
	desc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if desc.Name != "my-api" {
		t.Errorf("Name = %q, want %q", desc.Name, "my-api")
	}
	if desc.Key() != "my_api" {
		t.Errorf("Key() = %q, want %q", desc.Key(), "my_api")
	}
	if desc.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", desc.Version, "1.2.0")
	}
	if cmd, ok := desc.Script("test"); !ok || cmd != "pytest -x" {
		t.Errorf("Script(test) = %q, %v", cmd, ok)
	}
}

func TestParse_defaultVersion(t *testing.T) {
	desc, err := Parse([]byte("[package]\nname = \"core\"\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if desc.Version != "0.0.0" {
		t.Errorf("Version = %q, want 0.0.0", desc.Version)
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid toml", "[package\nname ="},
		{"missing name", "[package]\nversion = \"1.0.0\"\n"},
		{"empty script", "[package]\nname = \"a\"\n[scripts]\ntest = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestLoad_notFound(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_setsDir(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"core\"\n")

	desc, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !filepath.IsAbs(desc.Dir) {
		t.Errorf("Dir = %q, want absolute path", desc.Dir)
	}
}

func TestLoad_parseErrorNamesPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ":::")

	_, err := Load(dir)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if pe.Path != filepath.Join(dir, Filename) {
		t.Errorf("ParseError.Path = %q, want manifest path", pe.Path)
	}
}

func TestDependencyName(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"requests>=2.0", "requests"},
		{"numpy[extra]", "numpy"},
		{"my-pkg @ file:///tmp/pkg", "my_pkg"},
		{"core >=0.2", "core"},
		{"Plain-Name", "plain_name"},
		{"pinned==1.0.0", "pinned"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if got := DependencyName(tt.spec); got != tt.want {
				t.Errorf("DependencyName(%q) = %q, want %q", tt.spec, got, tt.want)
			}
		})
	}
}

func TestDependencyKeys_dedup(t *testing.T) {
	d := &Descriptor{
		Dependencies:    []string{"core >=0.1", "shared"},
		DevDependencies: []string{"core", "pytest"},
	}
	got := d.DependencyKeys()
	want := []string{"core", "shared", "pytest"}
	if len(got) != len(want) {
		t.Fatalf("DependencyKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DependencyKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetVersion(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"core\"\nversion = \"0.1.0\"\ndependencies = [\"requests\"]\n")

	if err := SetVersion(dir, "0.2.0"); err != nil {
		t.Fatalf("SetVersion() error: %v", err)
	}

	desc, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() after SetVersion: %v", err)
	}
	if desc.Version != "0.2.0" {
		t.Errorf("Version = %q, want 0.2.0", desc.Version)
	}
	if len(desc.Dependencies) != 1 || desc.Dependencies[0] != "requests" {
		t.Errorf("Dependencies = %v, dependencies should survive the rewrite", desc.Dependencies)
	}
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
