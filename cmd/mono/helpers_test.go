package main

import (
	"bytes"
	"testing"

	"github.com/fbkclanna/mono/internal/testutil"
)

// setupWorkspace scaffolds a four-package workspace: cli -> api -> core,
// plus a standalone docs package.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	return testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
		testutil.Pkg{Dir: "packages/api", Name: "api", Deps: []string{"core"}},
		testutil.Pkg{Dir: "packages/cli", Name: "cli", Deps: []string{"api"}},
		testutil.Pkg{Dir: "packages/docs", Name: "docs"},
	)
}

// execute runs the CLI with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
