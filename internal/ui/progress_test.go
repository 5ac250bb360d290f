package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgress_counts(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3)

	p.Done("core", 120*time.Millisecond)
	p.Failed("api", "exit 1")
	p.Skipped("cli")

	out := buf.String()
	for _, want := range []string{"[1/3]", "core", "[2/3]", "api", "exit 1", "[3/3]", "cli"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgress_Log(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 1)

	p.Log("running %d tasks", 4)

	if !strings.Contains(buf.String(), "running 4 tasks") {
		t.Errorf("missing log message: %s", buf.String())
	}
}
