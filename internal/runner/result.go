package runner

import "time"

// Status classifies the outcome of one task.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusSkipped   // never started: an earlier batch failed under fail-fast
	StatusCancelled // scheduled but cancelled before or during execution
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "ok"
	case StatusFailure:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result records the outcome of one task in one package.
type Result struct {
	Package  string
	Status   Status
	ExitCode int
	Output   []byte // combined stdout and stderr
	Duration time.Duration
	Command  string
	Err      error
}

// Summary aggregates the results of a full plan execution, in execution
// order (batch by batch, deterministic within a batch).
type Summary struct {
	Results []Result
}

// Failed returns the packages whose task failed.
func (s *Summary) Failed() []string {
	var failed []string
	for _, r := range s.Results {
		if r.Status == StatusFailure {
			failed = append(failed, r.Package)
		}
	}
	return failed
}

// Ok reports whether every executed task succeeded.
func (s *Summary) Ok() bool {
	for _, r := range s.Results {
		if r.Status == StatusFailure || r.Status == StatusCancelled {
			return false
		}
	}
	return true
}
