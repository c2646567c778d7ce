// Package graph implements the in-memory knowledge graph of OSS projects and
// their typed, weighted relationships.
//
// The graph stores project nodes keyed by name and directed edges keyed by
// (source, target, kind). Both inserts are last-write-wins: re-adding a
// project or an edge updates the existing entry instead of duplicating it.
// Reads return copies, so callers can never mutate graph state through a
// query result.
//
// The graph is expected to be populated once by a loading collaborator and
// then treated as read-mostly. All methods are safe for concurrent use: reads
// take a shared lock and mutation (AddProject, AddRelationship, Clear) takes
// an exclusive lock, so reasoning passes never observe a half-applied write.
package graph
