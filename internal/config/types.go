// Package config loads the mono.yaml workspace configuration. Values are
// layered the usual way: built-in defaults, then the config file, then
// MONO_-prefixed environment variables, then explicitly-set CLI flags.
package config

// Config is the root schema of mono.yaml.
type Config struct {
	Name     string            `koanf:"name"`
	Packages []string          `koanf:"packages"` // glob patterns, e.g. ["packages/*"]
	Ignore   []string          `koanf:"ignore"`   // gitignore-style exclusions
	Scripts  map[string]Script `koanf:"-"`        // normalized separately (string shorthand)
	Defaults Defaults          `koanf:"defaults"`
	Tool     Tool              `koanf:"tool"`
	Clean    Clean             `koanf:"clean"`
	Env      map[string]string `koanf:"env"` // applied to every spawned command
}

// Script is a named command runnable across packages with `mono run`.
// In mono.yaml a script may be a bare string, shorthand for {run: ...}.
type Script struct {
	Run         string            `koanf:"run"`
	Description string            `koanf:"description"`
	Env         map[string]string `koanf:"env"`
	Scope       string            `koanf:"scope"`
	FailFast    bool              `koanf:"fail_fast"`
	Topological *bool             `koanf:"topological"` // nil = workspace default
}

// Defaults holds fallback execution settings for all commands.
type Defaults struct {
	Jobs        int  `koanf:"jobs"`
	FailFast    bool `koanf:"fail_fast"`
	Topological bool `koanf:"topological"`
}

// Tool names the ecosystem package manager the thin wrapper commands invoke.
type Tool struct {
	Name      string   `koanf:"name"`
	Bootstrap []string `koanf:"bootstrap"` // args for `mono bootstrap`
	Publish   []string `koanf:"publish"`   // args for `mono publish`
}

// Clean configures which files `mono clean` removes per package.
type Clean struct {
	Patterns  []string `koanf:"patterns"`
	Protected []string `koanf:"protected"`
}

// TopologicalOrDefault resolves a script's topological setting against the
// workspace default.
func (s Script) TopologicalOrDefault(d Defaults) bool {
	if s.Topological != nil {
		return *s.Topological
	}
	return d.Topological
}

func defaultCleanPatterns() []string {
	return []string{
		"__pycache__", "*.pyc", ".pytest_cache", ".mypy_cache", ".ruff_cache",
		"*.egg-info", "dist", "build", ".coverage", "htmlcov",
	}
}

func defaultProtected() []string {
	return []string{".git", ".venv", "venv", "node_modules"}
}
