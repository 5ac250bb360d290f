package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Progress prints one line per finished task of a parallel run, with a
// running counter. Safe for concurrent use from worker goroutines.
type Progress struct {
	out   io.Writer
	total int
	done  atomic.Int32
	mu    sync.Mutex
}

// NewProgress creates a progress printer for total tasks.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done records a successful task.
func (p *Progress) Done(pkg string, d time.Duration) {
	p.line(OK("ok"), pkg, Dim(d.Round(time.Millisecond).String()))
}

// Failed records a failed task.
func (p *Progress) Failed(pkg string, detail string) {
	p.line(Fail("failed"), pkg, detail)
}

// Skipped records a task that never ran.
func (p *Progress) Skipped(pkg string) {
	p.line(Dim("skipped"), pkg, "")
}

func (p *Progress) line(status, pkg, detail string) {
	n := int(p.done.Add(1))
	p.mu.Lock()
	defer p.mu.Unlock()
	if detail != "" {
		detail = " " + detail
	}
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s %s%s\n", n, p.total, status, pkg, detail)
}

// Log prints an informational message without advancing the counter.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
