package core

import (
	"testing"
	"time"
)

func TestFixedStepCadence(t *testing.T) {
	now := time.Unix(0, 0)
	fs := newFixedStepWithClock(4, func() time.Time { return now })

	if !fs.ShouldStep() {
		t.Fatal("first call should step immediately")
	}
	if fs.ShouldStep() {
		t.Fatal("no time elapsed, should not step")
	}
	now = now.Add(100 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("100ms is below the 250ms interval")
	}
	now = now.Add(150 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("250ms accumulated, should step")
	}
}

func TestFixedStepCapsBacklog(t *testing.T) {
	now := time.Unix(0, 0)
	fs := newFixedStepWithClock(10, func() time.Time { return now })
	fs.ShouldStep()
	now = now.Add(5 * time.Second)
	steps := 0
	for i := 0; i < 10; i++ {
		if fs.ShouldStep() {
			steps++
		}
	}
	if steps > 2 {
		t.Fatalf("expected at most 2 catch-up steps after a stall, got %d", steps)
	}
	fs.SetTPS(0)
	if fs.TPS() != 1 || fs.Interval() != time.Second {
		t.Fatalf("SetTPS(0) should fall back to 1 tps, got %d (%s)", fs.TPS(), fs.Interval())
	}
}
