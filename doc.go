// Package loom recommends component stacks for software systems.
//
// Loom maintains a knowledge graph of open-source projects and the
// relationships between them, and weaves ranked architecture patterns out
// of it: given an intent ("a web app with a database and a cache"), it
// enumerates the viable component combinations, scores each one for
// compatibility, robustness, and fit, and returns patterns ordered by
// confidence.
//
// # Core Concepts
//
//   - Projects: open-source components with capabilities, licenses, and
//     popularity and security scores
//   - Relationships: directed, weighted edges between projects
//     (compatible-with, conflicts-with, requires, alternative-to, extends)
//   - Intents: what the user wants to build, expressed as required
//     capabilities plus constraints
//   - Patterns: scored, ranked component combinations satisfying an intent
//
// # Getting Started
//
// Create a Reasoner, load the graph, and rank an intent:
//
//	r, err := loom.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	r.AddProject(graph.NewProject("Django", taxonomy.CapabilityWebFramework).
//		WithPopularity(0.9).WithLicense("BSD-3-Clause"))
//	r.AddProject(graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase).
//		WithPopularity(0.95).WithLicense("PostgreSQL"))
//	r.AddRelationship(graph.NewRelationship("Django", "PostgreSQL",
//		taxonomy.RelationCompatibleWith).WithStrength(0.9))
//
//	result, err := r.Rank(ctx, weaver.NewIntent("web app",
//		taxonomy.CapabilityWebFramework, taxonomy.CapabilityDatabase))
//
// Beyond ranking, the Reasoner audits patterns for licensing and security
// risks (Audit), proposes directed improvements (Evolve), and serves
// free-text lookups against the graph (Search, Alternatives).
//
// # Packages
//
//   - taxonomy: the closed capability and relation vocabularies
//   - graph: the in-memory knowledge graph
//   - weaver: enumeration, scoring, and ranking
//   - constraint: CEL evaluation of intent constraints
//   - auditor: pattern risk findings
//   - evolver: directed pattern evolution
//   - cache, registry, serve, config: deployment plumbing
package loom
