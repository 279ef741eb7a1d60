package run

import (
	"math"
	"testing"
)

func TestTrackerDisabledNeverConverges(t *testing.T) {
	tracker := NewConvergenceTracker(DisabledConvergenceConfig())

	for i := 0; i < 100; i++ {
		if tracker.Update(1.0) {
			t.Fatal("disabled tracker must never report convergence")
		}
	}
}

func TestTrackerConvergesAfterPatience(t *testing.T) {
	tracker := NewConvergenceTracker(ConvergenceConfig{
		Enabled:   true,
		Patience:  3,
		Threshold: 0.001,
	})

	if tracker.Update(100) {
		t.Fatal("first update must not converge")
	}

	// Three stale updates in a row trigger convergence on the last one.
	if tracker.Update(100) {
		t.Fatal("stale count 1 should not converge")
	}
	if tracker.Update(99.99) {
		t.Fatal("stale count 2 should not converge")
	}
	if !tracker.Update(99.99) {
		t.Fatal("stale count 3 should converge")
	}
}

func TestTrackerImprovementResetsStaleCount(t *testing.T) {
	tracker := NewConvergenceTracker(ConvergenceConfig{
		Enabled:   true,
		Patience:  2,
		Threshold: 0.001,
	})

	tracker.Update(100)
	tracker.Update(100) // stale 1
	if tracker.StaleCount() != 1 {
		t.Fatalf("StaleCount = %d, want 1", tracker.StaleCount())
	}

	// A 1% improvement is significant and resets the counter.
	if tracker.Update(99) {
		t.Fatal("significant improvement must not converge")
	}
	if tracker.StaleCount() != 0 {
		t.Fatalf("StaleCount = %d after improvement, want 0", tracker.StaleCount())
	}
}

func TestTrackerBestScoreAndHistory(t *testing.T) {
	tracker := NewConvergenceTracker(DefaultConvergenceConfig())

	scores := []float64{10, 5, 7, 3}
	for _, s := range scores {
		tracker.Update(s)
	}

	if tracker.BestScore() != 3 {
		t.Fatalf("BestScore = %v, want 3", tracker.BestScore())
	}
	hist := tracker.History()
	if len(hist) != len(scores) {
		t.Fatalf("History has %d entries, want %d", len(hist), len(scores))
	}

	tracker.Reset()
	if !math.IsInf(tracker.BestScore(), 1) {
		t.Fatal("Reset should clear the best score")
	}
	if len(tracker.History()) != 0 {
		t.Fatal("Reset should clear the history")
	}
}
