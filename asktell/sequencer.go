package asktell

import "fmt"

// OrderingError reports a violation of the ask/tell call sequence.
// Use errors.Is(err, ErrOrdering) to check for this error.
type OrderingError struct {
	Op     string // "ask" or "tell"
	Reason string
}

func (e *OrderingError) Error() string {
	return "asktell: " + e.Op + " " + e.Reason
}

func (e *OrderingError) Is(target error) bool {
	_, ok := target.(*OrderingError)
	return ok
}

// ErrOrdering matches any OrderingError via errors.Is.
var ErrOrdering = &OrderingError{}

// ValidationError reports an invalid argument or configuration value
// handed to an algorithm, as opposed to a protocol ordering violation.
// Use errors.Is(err, ErrValidation) to check for this error.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ErrValidation matches any ValidationError via errors.Is.
var ErrValidation = &ValidationError{}

// Sequencer enforces the two-phase ask/tell ordering shared by all
// algorithms. Algorithms compose a Sequencer rather than implementing the
// phase bookkeeping themselves. The zero value starts in the awaiting-ask
// phase.
type Sequencer struct {
	pending      int
	awaitingTell bool
}

// RecordAsk transitions to the awaiting-tell phase, remembering the batch
// size the next Tell must match. Fails if a batch is already pending.
func (s *Sequencer) RecordAsk(batch int) error {
	if s.awaitingTell {
		return &OrderingError{Op: "ask", Reason: "called twice without an intervening tell"}
	}
	s.pending = batch
	s.awaitingTell = true
	return nil
}

// RecordTell validates the result count against the pending batch size and
// transitions back to the awaiting-ask phase. On an arity mismatch the phase
// is left unchanged, so the caller may retry with the correct count.
func (s *Sequencer) RecordTell(n int) error {
	if !s.awaitingTell {
		return &OrderingError{Op: "tell", Reason: "called before ask"}
	}
	if n != s.pending {
		return &OrderingError{Op: "tell", Reason: fmt.Sprintf("got %d values for a batch of %d", n, s.pending)}
	}
	s.awaitingTell = false
	return nil
}

// Pending returns the batch size awaiting results, or 0 in the awaiting-ask
// phase.
func (s *Sequencer) Pending() int {
	if !s.awaitingTell {
		return 0
	}
	return s.pending
}

// AwaitingTell reports whether an asked batch has not yet been told.
func (s *Sequencer) AwaitingTell() bool {
	return s.awaitingTell
}
