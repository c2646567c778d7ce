package loom

import (
	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/weaver"
)

// Sentinel errors from the subpackages, re-exported so callers matching
// with errors.Is do not need to import graph and weaver directly.
var (
	// ErrInvalidProject indicates a project failed validation.
	ErrInvalidProject = graph.ErrInvalidProject

	// ErrInvalidRelationship indicates a relationship failed validation.
	ErrInvalidRelationship = graph.ErrInvalidRelationship

	// ErrUnknownProject indicates a referenced project is not in the graph.
	ErrUnknownProject = graph.ErrUnknownProject

	// ErrInvalidIntent indicates an intent failed validation.
	ErrInvalidIntent = weaver.ErrInvalidIntent

	// ErrUnsatisfiableIntent indicates a required capability has no
	// provider in the graph.
	ErrUnsatisfiableIntent = weaver.ErrUnsatisfiableIntent

	// ErrComplexityLimit indicates enumeration would exceed the candidate
	// ceiling.
	ErrComplexityLimit = weaver.ErrComplexityLimit
)
