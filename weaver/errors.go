package weaver

import "errors"

// Sentinel errors for enumeration and ranking.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidIntent indicates an empty or malformed request: no required
	// capabilities, or a capability kind outside the taxonomy.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrUnsatisfiableIntent indicates that a required capability has no
	// provider in the graph. The wrapped message names the uncoverable
	// capability; no partial result is produced.
	ErrUnsatisfiableIntent = errors.New("unsatisfiable intent")

	// ErrComplexityLimit indicates that the candidate combination count would
	// exceed the configured hard ceiling even after per-capability
	// truncation. Enumeration refuses to proceed rather than silently
	// exploring an unbounded space.
	ErrComplexityLimit = errors.New("combination ceiling exceeded")
)
