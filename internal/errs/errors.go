package errs

import "errors"

// Sentinel errors for the engine. Handlers map these to HTTP statuses with
// errors.Is; everything else is treated as an internal error.
var (
	// ErrNotFound means a definition, question or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExhausted signals that the question bank has no unseen candidate at
	// any difficulty. It is a termination condition, not a request failure:
	// the session completes with partial=true.
	ErrExhausted = errors.New("question bank exhausted")

	// ErrConflictingSubmission means an answer was submitted while a previous
	// one is still being graded. Safe to retry once the first completes.
	ErrConflictingSubmission = errors.New("conflicting submission")

	// ErrGradingTimeout means the external grading capability did not respond
	// within the configured window. Recovered locally with a provisional
	// score, never surfaced to the student-facing flow.
	ErrGradingTimeout = errors.New("grading timeout")

	// ErrInvalidConfiguration means an assessment definition violates its own
	// invariants. Rejected at creation time; sessions cannot be started
	// against invalid definitions.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
