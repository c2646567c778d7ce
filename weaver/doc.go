// Package weaver turns a set of required capabilities into ranked
// architectural patterns.
//
// The pipeline has three stages. The Enumerator queries the knowledge graph
// for providers of each required capability and builds every minimal covering
// combination, bounding the search space with a per-capability top-N cut and a
// hard candidate ceiling. The Scorer reduces each candidate to two composite
// scores: confidence (how well the combination is expected to work) and
// complexity (how much operational burden it carries), both in [0.0, 1.0].
// The Weaver orchestrates both, deduplicates by project set, applies
// constraint filters, and returns a deterministically ordered Result.
//
// Scoring is a pure function of (candidate, graph snapshot, configuration,
// constraints): ranking the same intent twice against an unmodified graph
// yields identical output.
package weaver
