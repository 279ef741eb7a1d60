package asktell

import (
	"errors"
	"testing"
)

func TestSequencerHappyPath(t *testing.T) {
	var s Sequencer

	for cycle := 0; cycle < 3; cycle++ {
		if err := s.RecordAsk(5); err != nil {
			t.Fatalf("RecordAsk failed on cycle %d: %v", cycle, err)
		}
		if got := s.Pending(); got != 5 {
			t.Fatalf("Pending = %d, want 5", got)
		}
		if !s.AwaitingTell() {
			t.Fatal("expected awaiting-tell phase after ask")
		}
		if err := s.RecordTell(5); err != nil {
			t.Fatalf("RecordTell failed on cycle %d: %v", cycle, err)
		}
		if s.AwaitingTell() {
			t.Fatal("expected awaiting-ask phase after tell")
		}
		if got := s.Pending(); got != 0 {
			t.Fatalf("Pending = %d after tell, want 0", got)
		}
	}
}

func TestSequencerAskTwiceFails(t *testing.T) {
	var s Sequencer

	if err := s.RecordAsk(1); err != nil {
		t.Fatalf("first RecordAsk failed: %v", err)
	}
	err := s.RecordAsk(1)
	if err == nil {
		t.Fatal("expected error from second ask without tell")
	}
	if !errors.Is(err, ErrOrdering) {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestSequencerTellBeforeAskFails(t *testing.T) {
	var s Sequencer

	err := s.RecordTell(1)
	if err == nil {
		t.Fatal("expected error from tell before any ask")
	}
	if !errors.Is(err, ErrOrdering) {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestSequencerTellTwiceFails(t *testing.T) {
	var s Sequencer

	if err := s.RecordAsk(2); err != nil {
		t.Fatalf("RecordAsk failed: %v", err)
	}
	if err := s.RecordTell(2); err != nil {
		t.Fatalf("RecordTell failed: %v", err)
	}
	if err := s.RecordTell(2); !errors.Is(err, ErrOrdering) {
		t.Fatalf("expected ordering error from second tell, got %v", err)
	}
}

func TestSequencerArityMismatch(t *testing.T) {
	var s Sequencer

	if err := s.RecordAsk(3); err != nil {
		t.Fatalf("RecordAsk failed: %v", err)
	}
	if err := s.RecordTell(2); !errors.Is(err, ErrOrdering) {
		t.Fatalf("expected ordering error from arity mismatch, got %v", err)
	}

	// A failed tell must not consume the pending batch.
	if !s.AwaitingTell() {
		t.Fatal("arity mismatch should leave the sequencer awaiting tell")
	}
	if err := s.RecordTell(3); err != nil {
		t.Fatalf("RecordTell with matching arity failed after mismatch: %v", err)
	}
}
