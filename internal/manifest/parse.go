package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the manifest file expected at every package root.
const Filename = "package.toml"

// ErrNotFound reports a directory that has no package.toml.
var ErrNotFound = errors.New("package.toml not found")

// ParseError reports a package.toml that exists but cannot be used.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// tomlManifest is the on-disk schema of package.toml.
type tomlManifest struct {
	Package struct {
		Name            string   `toml:"name"`
		Version         string   `toml:"version"`
		Description     string   `toml:"description"`
		Dependencies    []string `toml:"dependencies"`
		DevDependencies []string `toml:"dev-dependencies"`
	} `toml:"package"`
	Scripts map[string]string `toml:"scripts"`
}

// Load reads and validates the package.toml in dir.
func Load(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	desc, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving package dir: %w", err)
	}
	desc.Dir = abs
	return desc, nil
}

// Parse parses and validates package.toml content. The returned Descriptor
// has no Dir set; Load fills it in.
func Parse(data []byte) (*Descriptor, error) {
	var m tomlManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid TOML: %w", err)}
	}

	if m.Package.Name == "" {
		return nil, &ParseError{Err: errors.New("package.name is required")}
	}

	version := m.Package.Version
	if version == "" {
		version = "0.0.0"
	}

	for name, cmd := range m.Scripts {
		if cmd == "" {
			return nil, &ParseError{Err: fmt.Errorf("scripts.%s must not be empty", name)}
		}
	}

	return &Descriptor{
		Name:            m.Package.Name,
		Version:         version,
		Description:     m.Package.Description,
		Dependencies:    m.Package.Dependencies,
		DevDependencies: m.Package.DevDependencies,
		Scripts:         m.Scripts,
	}, nil
}

// SetVersion rewrites the version field of the package.toml in dir. The rest
// of the document is decoded and re-encoded, so comments are not preserved.
func SetVersion(dir, version string) error {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return &ParseError{Path: path, Err: fmt.Errorf("invalid TOML: %w", err)}
	}
	pkg, ok := doc["package"].(map[string]any)
	if !ok {
		return &ParseError{Path: path, Err: errors.New("missing [package] table")}
	}
	pkg["version"] = version

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
