package match

import (
	"strings"
	"testing"
	"time"
)

func TestBudgetZeroMeansUnlimited(t *testing.T) {
	var b SimBudget
	if reason, hit := b.exceeded(time.Hour, 10000, 1<<20); hit {
		t.Fatalf("zero budget tripped: %s", reason)
	}
}

func TestBudgetAxes(t *testing.T) {
	b := SimBudget{MaxWallClock: time.Second, MaxMinutes: 90, MaxEvents: 100}

	if _, hit := b.exceeded(500*time.Millisecond, 45, 10); hit {
		t.Fatal("inside all limits must not trip")
	}
	if reason, hit := b.exceeded(time.Second, 45, 10); !hit || !strings.Contains(reason, "wall clock") {
		t.Fatalf("wall clock axis: hit=%v reason=%q", hit, reason)
	}
	if reason, hit := b.exceeded(0, 91, 10); !hit || !strings.Contains(reason, "minute") {
		t.Fatalf("minute axis: hit=%v reason=%q", hit, reason)
	}
	if _, hit := b.exceeded(0, 90, 10); hit {
		t.Fatal("minute limit is inclusive")
	}
	if reason, hit := b.exceeded(0, 45, 100); !hit || !strings.Contains(reason, "event") {
		t.Fatalf("event axis: hit=%v reason=%q", hit, reason)
	}
}
