package main

import (
	"context"
	"testing"
	"time"

	"github.com/example/repair-dispatch/internal/schedule"
)

// flakyCache drops the first N writes, simulating transient cache failures.
type flakyCache struct {
	failWrites int
	setCalls   int
	rules      map[int]schedule.Rule
}

func newFlakyCache(failWrites int) *flakyCache {
	return &flakyCache{failWrites: failWrites, rules: make(map[int]schedule.Rule)}
}

func (f *flakyCache) Set(ctx context.Context, technicianID int, r schedule.Rule) {
	f.setCalls++
	if f.setCalls <= f.failWrites {
		return
	}
	f.rules[technicianID] = r
}

func (f *flakyCache) Get(ctx context.Context, technicianID int) (schedule.Rule, bool) {
	r, ok := f.rules[technicianID]
	return r, ok
}

func TestRefreshRuleSucceedsAfterRetries(t *testing.T) {
	f := newFlakyCache(1)
	upd := availabilityUpdate{TechnicianID: 7, Availability: "Mon-Fri, 9 AM - 5 PM"}
	start := time.Now()
	if err := refreshRuleWithRetry(context.Background(), f, upd, 3, 10*time.Millisecond); err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if f.setCalls < 2 {
		t.Fatalf("expected a retry, got %d set calls", f.setCalls)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("expected at least one backoff")
	}
	got, ok := f.Get(context.Background(), 7)
	if !ok || got.StartHour != 9 || got.EndHour != 17 {
		t.Fatalf("unexpected cached rule: %+v", got)
	}
}

func TestRefreshRuleFailsWhenExhausted(t *testing.T) {
	f := newFlakyCache(5)
	upd := availabilityUpdate{TechnicianID: 7, Availability: "24/7"}
	if err := refreshRuleWithRetry(context.Background(), f, upd, 3, 5*time.Millisecond); err == nil {
		t.Fatal("expected error after retries")
	}
}

func TestRefreshRuleFallsBackOnGarbage(t *testing.T) {
	f := newFlakyCache(0)
	upd := availabilityUpdate{TechnicianID: 3, Availability: "whenever I feel like it"}
	if err := refreshRuleWithRetry(context.Background(), f, upd, 1, time.Millisecond); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	got, _ := f.Get(context.Background(), 3)
	if got != schedule.FullAvailability() {
		t.Fatalf("expected full availability fallback, got %+v", got)
	}
}
