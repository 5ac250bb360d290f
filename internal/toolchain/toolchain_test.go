package toolchain

import (
	"context"
	"testing"
)

func TestPath_notInstalled(t *testing.T) {
	tool := New("definitely-not-a-real-tool-xyz")
	if _, err := tool.Path(); err == nil {
		t.Error("Path() succeeded for a missing binary")
	}
}

func TestRun(t *testing.T) {
	tool := New("true")
	if _, err := tool.Path(); err != nil {
		t.Skip("true not on PATH")
	}
	if err := tool.Run(context.Background(), t.TempDir()); err != nil {
		t.Errorf("Run() error: %v", err)
	}
}

func TestRun_failure(t *testing.T) {
	tool := New("false")
	if _, err := tool.Path(); err != nil {
		t.Skip("false not on PATH")
	}
	if err := tool.Run(context.Background(), t.TempDir()); err == nil {
		t.Error("Run() succeeded for a failing command")
	}
}

func TestCommand_env(t *testing.T) {
	tool := New("true")
	tool.Env = []string{"MONO_TEST=1"}
	cmd, err := tool.Command(context.Background(), t.TempDir())
	if err != nil {
		t.Skip("true not on PATH")
	}
	found := false
	for _, kv := range cmd.Env {
		if kv == "MONO_TEST=1" {
			found = true
		}
	}
	if !found {
		t.Error("Command() env missing MONO_TEST=1")
	}
}
