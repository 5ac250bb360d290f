package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Executor runs a Plan batch by batch with at most Jobs tasks in flight.
type Executor struct {
	Jobs     int
	FailFast bool
	Env      []string     // workspace-level KEY=VALUE entries for every task
	OnResult func(Result) // called as each task finishes, in completion order
}

var errFailFast = errors.New("task failed")

// Run executes the plan. A batch's tasks run concurrently; the next batch
// starts only when the previous one is fully drained. Under fail-fast a
// failure cancels tasks not yet started and skips the remaining batches;
// tasks already running are allowed to finish and are reported as they
// ended, never mislabelled.
func (e *Executor) Run(ctx context.Context, plan *Plan) (*Summary, error) {
	jobs := e.Jobs
	if jobs < 1 {
		jobs = 1
	}

	summary := &Summary{}
	failed := false
	for _, batch := range plan.Batches {
		if failed && e.FailFast {
			for _, task := range batch {
				summary.Results = append(summary.Results, e.record(Result{
					Package: task.Package,
					Status:  StatusSkipped,
					Command: task.Command.display(),
				}))
			}
			continue
		}

		results := make([]Result, len(batch))
		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(jobs)
		for i, task := range batch {
			i, task := i, task
			grp.Go(func() error {
				if gctx.Err() != nil {
					results[i] = Result{
						Package: task.Package,
						Status:  StatusCancelled,
						Command: task.Command.display(),
					}
					return nil
				}
				results[i] = e.runTask(gctx, task)
				if results[i].Status == StatusFailure && e.FailFast {
					return errFailFast
				}
				return nil
			})
		}
		if err := grp.Wait(); err != nil && !errors.Is(err, errFailFast) {
			return summary, err
		}
		for _, r := range results {
			if r.Status == StatusFailure {
				failed = true
			}
			summary.Results = append(summary.Results, e.record(r))
		}
	}
	return summary, nil
}

func (e *Executor) record(r Result) Result {
	if e.OnResult != nil {
		e.OnResult(r)
	}
	return r
}

func (e *Executor) runTask(ctx context.Context, task Task) Result {
	var cmd *exec.Cmd
	if task.Command.Shell != "" {
		cmd = exec.CommandContext(ctx, "sh", "-c", task.Command.Shell)
	} else {
		cmd = exec.CommandContext(ctx, task.Command.Argv[0], task.Command.Argv[1:]...)
	}
	cmd.Dir = task.Dir
	cmd.Env = append(append(os.Environ(), e.Env...), task.Command.Env...)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	result := Result{
		Package:  task.Package,
		Output:   output,
		Duration: time.Since(start),
		Command:  task.Command.display(),
	}
	switch {
	case err == nil:
		result.Status = StatusSuccess
	case ctx.Err() != nil:
		result.Status = StatusCancelled
		result.Err = ctx.Err()
	default:
		result.Status = StatusFailure
		result.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}
	return result
}
