package poller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// ────────────────────────────────────────────────────────────────────────────
// Status
// ────────────────────────────────────────────────────────────────────────────

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Succeeded, "succeeded"},
		{TimedOut, "timed out"},
		{FailureLimitExceeded, "failure limit exceeded"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Task.Run
// ────────────────────────────────────────────────────────────────────────────

func TestRunImmediateSuccess(t *testing.T) {
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			return true, "ready", nil
		},
		Timeout:  time.Second,
		Interval: time.Second,
	}

	start := time.Now()
	out := task.Run(context.Background())

	if out.Status != Succeeded {
		t.Fatalf("Status = %v, want Succeeded", out.Status)
	}
	if out.Checks != 1 {
		t.Errorf("Checks = %d, want 1", out.Checks)
	}
	if out.Detail != "ready" {
		t.Errorf("Detail = %q, want %q", out.Detail, "ready")
	}
	// A first-check success must not sleep at all.
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first-check success slept: elapsed = %v", elapsed)
	}
}

func TestRunSucceedsOnNthCheck(t *testing.T) {
	// DNS-style scenario: the expected address shows up on the 3rd check.
	const expected = "203.0.113.10"
	attempts := 0
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			attempts++
			if attempts < 3 {
				return false, "resolves to 198.51.100.7, want " + expected, nil
			}
			return true, "resolves to " + expected, nil
		},
		Timeout:  time.Second,
		Interval: 5 * time.Millisecond,
	}

	out := task.Run(context.Background())

	if out.Status != Succeeded {
		t.Fatalf("Status = %v, want Succeeded (detail: %s)", out.Status, out.Detail)
	}
	if out.Checks != 3 {
		t.Errorf("Checks = %d, want 3", out.Checks)
	}
	if out.Detail != "resolves to "+expected {
		t.Errorf("Detail = %q", out.Detail)
	}
}

func TestRunTimesOut(t *testing.T) {
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			return false, "still waiting", nil
		},
		Timeout:  30 * time.Millisecond,
		Interval: 5 * time.Millisecond,
	}

	start := time.Now()
	out := task.Run(context.Background())
	elapsed := time.Since(start)

	if out.Status != TimedOut {
		t.Fatalf("Status = %v, want TimedOut", out.Status)
	}
	if out.Checks == 0 {
		t.Error("Checks = 0, want at least one check before timing out")
	}
	if out.Detail != "still waiting" {
		t.Errorf("Detail = %q, want last diagnostic carried through", out.Detail)
	}
	// Hard bound from the contract: never more than Timeout + Interval
	// (plus scheduling slack).
	if max := task.Timeout + task.Interval + 50*time.Millisecond; elapsed > max {
		t.Errorf("elapsed = %v, want <= %v", elapsed, max)
	}
}

func TestRunFailureLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"limit-1", 1},
		{"limit-3", 3},
		{"limit-10", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := 0
			task := Task{
				Check: func(ctx context.Context) (bool, string, error) {
					checks++
					return false, fmt.Sprintf("attempt %d", checks), nil
				},
				Timeout:                time.Minute, // far beyond what the budget allows
				Interval:               time.Millisecond,
				MaxConsecutiveFailures: tt.limit,
			}

			out := task.Run(context.Background())

			if out.Status != FailureLimitExceeded {
				t.Fatalf("Status = %v, want FailureLimitExceeded", out.Status)
			}
			if out.Checks != tt.limit {
				t.Errorf("Checks = %d, want exactly %d", out.Checks, tt.limit)
			}
			if out.Elapsed >= time.Minute {
				t.Errorf("Elapsed = %v, budget should trip long before the timeout", out.Elapsed)
			}
		})
	}
}

func TestRunPodHealthScenario(t *testing.T) {
	// 2 of 5 pods permanently stuck in Pending: the 10-check budget must
	// trip rather than waiting out the full timeout.
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			return false, "2 pod(s) not ready: cassandra-0 (Pending), keycloak-1 (Pending)", nil
		},
		Timeout:                10 * time.Minute,
		Interval:               time.Millisecond,
		MaxConsecutiveFailures: 10,
	}

	out := task.Run(context.Background())

	if out.Status != FailureLimitExceeded {
		t.Fatalf("Status = %v, want FailureLimitExceeded", out.Status)
	}
	if out.Checks != 10 {
		t.Errorf("Checks = %d, want 10", out.Checks)
	}
}

func TestRunCheckErrorIsNotReady(t *testing.T) {
	// A transient predicate error counts as a failed tick, not an abort.
	attempts := 0
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			attempts++
			if attempts < 2 {
				return false, "", errors.New("connection refused")
			}
			return true, "recovered", nil
		},
		Timeout:  time.Second,
		Interval: time.Millisecond,
	}

	out := task.Run(context.Background())

	if out.Status != Succeeded {
		t.Fatalf("Status = %v, want Succeeded after transient error", out.Status)
	}
	if out.Checks != 2 {
		t.Errorf("Checks = %d, want 2", out.Checks)
	}
}

func TestRunCheckErrorBecomesDetail(t *testing.T) {
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			return false, "", errors.New("lookup failed: no such host")
		},
		Timeout:                time.Second,
		Interval:               time.Millisecond,
		MaxConsecutiveFailures: 1,
	}

	out := task.Run(context.Background())

	if out.Status != FailureLimitExceeded {
		t.Fatalf("Status = %v, want FailureLimitExceeded", out.Status)
	}
	if out.Detail != "lookup failed: no such host" {
		t.Errorf("Detail = %q, want the check error", out.Detail)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Task{
		Check: func(ctx context.Context) (bool, string, error) {
			cancel() // cancel while the poller is mid-flight
			return false, "not yet", nil
		},
		Timeout:  time.Minute,
		Interval: time.Minute,
	}

	start := time.Now()
	out := task.Run(ctx)

	if out.Status != TimedOut {
		t.Fatalf("Status = %v, want TimedOut on cancellation", out.Status)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, want immediate return", elapsed)
	}
}
