package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/project-sunbird/sunbird-deploy/poller"
)

// ────────────────────────────────────────────────────────────────────────────
// DNSCheck
// ────────────────────────────────────────────────────────────────────────────

func TestDNSCheckMatch(t *testing.T) {
	lookup := func(ctx context.Context, host string) ([]string, error) {
		return []string{"198.51.100.7", "203.0.113.10"}, nil
	}
	check := DNSCheck("dev.sunbird.example.org", "203.0.113.10", lookup)

	ready, detail, err := check(context.Background())
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !ready {
		t.Errorf("ready = false, want true (detail: %s)", detail)
	}
	if !strings.Contains(detail, "203.0.113.10") {
		t.Errorf("detail = %q, want resolved address", detail)
	}
}

func TestDNSCheckMismatch(t *testing.T) {
	lookup := func(ctx context.Context, host string) ([]string, error) {
		return []string{"198.51.100.7"}, nil
	}
	check := DNSCheck("dev.sunbird.example.org", "203.0.113.10", lookup)

	ready, detail, err := check(context.Background())
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if ready {
		t.Error("ready = true, want false")
	}
	if !strings.Contains(detail, "198.51.100.7") || !strings.Contains(detail, "203.0.113.10") {
		t.Errorf("detail = %q, want both actual and expected addresses", detail)
	}
}

func TestDNSCheckLookupError(t *testing.T) {
	lookup := func(ctx context.Context, host string) ([]string, error) {
		return nil, errors.New("no such host")
	}
	check := DNSCheck("dev.sunbird.example.org", "203.0.113.10", lookup)

	ready, _, err := check(context.Background())
	if ready {
		t.Error("ready = true on lookup error")
	}
	if err == nil {
		t.Error("err = nil, want lookup error surfaced for the poller to absorb")
	}
}

func TestDNSCheckPropagationScenario(t *testing.T) {
	// The record appears on the 3rd lookup; the poll must succeed on
	// exactly that check.
	attempts := 0
	lookup := func(ctx context.Context, host string) ([]string, error) {
		attempts++
		if attempts < 3 {
			return []string{"198.51.100.7"}, nil
		}
		return []string{"203.0.113.10"}, nil
	}
	task := poller.Task{
		Check:    DNSCheck("dev.sunbird.example.org", "203.0.113.10", lookup),
		Timeout:  time.Second,
		Interval: time.Millisecond,
	}

	out := task.Run(context.Background())

	if out.Status != poller.Succeeded {
		t.Fatalf("Status = %v, want Succeeded", out.Status)
	}
	if out.Checks != 3 {
		t.Errorf("Checks = %d, want 3", out.Checks)
	}
}
