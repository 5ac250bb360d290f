package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Filenames accepted as the workspace configuration, in priority order.
var Filenames = []string{"mono.yaml", "mono.yml"}

// maxUpwardSearchLevels bounds how far FindRoot walks toward the filesystem root.
const maxUpwardSearchLevels = 10

// NotFoundError reports that no mono.yaml exists at or above the start directory.
type NotFoundError struct {
	Start string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no mono.yaml found in %s or any parent directory (run 'mono init' to create a workspace)", e.Start)
}

// FindRoot walks upward from start looking for a workspace configuration and
// returns the directory containing it.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving search start: %w", err)
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", &NotFoundError{Start: start}
}

func configIn(dir string) string {
	for _, name := range Filenames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the workspace configuration at root. flags may be nil; when
// given, explicitly-set flags override file and environment values
// (--jobs and --fail-fast map onto the defaults section).
func Load(root string, flags *pflag.FlagSet) (*Config, error) {
	path := configIn(root)
	if path == "" {
		return nil, &NotFoundError{Start: root}
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"defaults.jobs":        4,
		"defaults.topological": true,
		"tool.name":            "uv",
		"tool.bootstrap":       []string{"sync"},
		"tool.publish":         []string{"publish"},
		"clean.patterns":       defaultCleanPatterns(),
		"clean.protected":      defaultProtected(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// MONO_NAME -> name, MONO_DEFAULTS.JOBS is not a thing: env overrides
	// apply to top-level scalar keys only.
	if err := k.Load(env.Provider("MONO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MONO_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "jobs":
				return "defaults.jobs", posflag.FlagVal(flags, f)
			case "fail-fast":
				return "defaults.fail_fast", posflag.FlagVal(flags, f)
			}
			return "", nil
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flag overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	scripts, err := normalizeScripts(k.Get("scripts"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Scripts = scripts

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(cfg.Packages) == 0 {
		return fmt.Errorf("at least one package pattern is required")
	}
	for _, p := range cfg.Packages {
		if err := validatePattern(p); err != nil {
			return err
		}
	}
	if cfg.Defaults.Jobs < 1 || cfg.Defaults.Jobs > 32 {
		return fmt.Errorf("defaults.jobs must be between 1 and 32 (got %d)", cfg.Defaults.Jobs)
	}
	if cfg.Tool.Name == "" {
		return fmt.Errorf("tool.name must not be empty")
	}
	for name, s := range cfg.Scripts {
		if s.Run == "" {
			return fmt.Errorf("scripts.%s.run is required", name)
		}
	}
	return nil
}

// validatePattern ensures a package pattern stays inside the workspace.
func validatePattern(p string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("packages: absolute pattern is not allowed: %s", p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("packages: pattern must not escape workspace (contains ..): %s", p)
	}
	return nil
}

// normalizeScripts accepts both forms a script may take in mono.yaml: a bare
// command string, or a mapping with run/description/env/scope/fail_fast/
// topological keys.
func normalizeScripts(raw interface{}) (map[string]Script, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("scripts must be a mapping")
	}

	scripts := make(map[string]Script, len(entries))
	for name, v := range entries {
		switch sv := v.(type) {
		case string:
			scripts[name] = Script{Run: sv}
		case map[string]interface{}:
			s, err := decodeScript(sv)
			if err != nil {
				return nil, fmt.Errorf("scripts.%s: %w", name, err)
			}
			scripts[name] = s
		default:
			return nil, fmt.Errorf("scripts.%s must be a string or a mapping", name)
		}
	}
	return scripts, nil
}

func decodeScript(m map[string]interface{}) (Script, error) {
	sub := koanf.New(".")
	if err := sub.Load(confmap.Provider(m, "."), nil); err != nil {
		return Script{}, err
	}
	var s Script
	if err := sub.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Script{}, err
	}
	return s, nil
}
