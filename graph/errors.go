package graph

import "errors"

// Sentinel errors for graph operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidProject indicates that a project failed validation at
	// insertion time: an empty name, no capabilities, an unknown capability
	// kind, or a score outside [0.0, 1.0]. A project with zero capabilities
	// is rejected outright because no capability query could ever reach it.
	ErrInvalidProject = errors.New("invalid project")

	// ErrInvalidRelationship indicates that a relationship failed validation
	// at insertion time: an empty endpoint, a self-referential edge, an
	// unknown relation kind, or a strength outside [0.0, 1.0].
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrUnknownProject indicates that a relationship references a project
	// that is not present in the graph. Both endpoints must be inserted
	// before an edge between them is accepted.
	ErrUnknownProject = errors.New("unknown project")
)
