// Package poller implements a bounded readiness poller: it repeatedly
// evaluates a caller-supplied readiness predicate until the condition holds,
// a hard deadline elapses, or an optional consecutive-failure budget runs
// out. It underlies both the DNS-propagation wait and the pod-health wait in
// the deployment pipeline.
package poller

import (
	"context"
	"time"
)

// Status is the terminal outcome of a poll.
type Status int

const (
	// Succeeded — the predicate reported ready.
	Succeeded Status = iota
	// TimedOut — the deadline elapsed (or the context was cancelled)
	// without the predicate ever reporting ready.
	TimedOut
	// FailureLimitExceeded — the consecutive-failure budget ran out before
	// the deadline.
	FailureLimitExceeded
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case TimedOut:
		return "timed out"
	case FailureLimitExceeded:
		return "failure limit exceeded"
	default:
		return "unknown"
	}
}

// Check reports whether the monitored condition currently holds, along with
// an optional diagnostic detail. Checks observe only; they must not mutate
// external state. A returned error counts as "not ready" for that tick — it
// never aborts the poll.
type Check func(ctx context.Context) (ready bool, detail string, err error)

// Task describes one bounded poll. Timeout and Interval must be positive.
type Task struct {
	Check    Check
	Timeout  time.Duration
	Interval time.Duration

	// MaxConsecutiveFailures aborts the poll after this many failed checks
	// in a row. Zero disables the budget; the poll then relies on Timeout
	// alone.
	MaxConsecutiveFailures int
}

// Outcome is the terminal result of a poll.
type Outcome struct {
	Status  Status
	Detail  string // diagnostic detail from the last check
	Elapsed time.Duration
	Checks  int
}

// Run polls until the check reports ready, the timeout elapses, or the
// failure budget is exhausted. A ready result returns immediately with no
// trailing sleep, so total wall time never exceeds Timeout + Interval.
func (t Task) Run(ctx context.Context) Outcome {
	start := time.Now()
	deadline := start.Add(t.Timeout)

	var out Outcome
	failures := 0

	for time.Now().Before(deadline) {
		ready, detail, err := t.Check(ctx)
		out.Checks++
		if err != nil {
			detail = err.Error()
		}
		out.Detail = detail

		if ready && err == nil {
			out.Status = Succeeded
			out.Elapsed = time.Since(start)
			return out
		}

		failures++
		if t.MaxConsecutiveFailures > 0 && failures >= t.MaxConsecutiveFailures {
			out.Status = FailureLimitExceeded
			out.Elapsed = time.Since(start)
			return out
		}

		select {
		case <-ctx.Done():
			out.Status = TimedOut
			out.Detail = ctx.Err().Error()
			out.Elapsed = time.Since(start)
			return out
		case <-time.After(t.Interval):
		}
	}

	out.Status = TimedOut
	out.Elapsed = time.Since(start)
	return out
}
