// Package workspace discovers member packages under a workspace root and
// aggregates them with the loaded configuration. Discovery expands the
// configured glob patterns, keeps directories that carry a package.toml,
// and applies gitignore-style exclusion patterns. Construction is
// all-or-nothing: any unreadable manifest or duplicate package name aborts
// the load.
package workspace
