package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Graph is the knowledge graph of OSS projects and their relationships.
// The zero value is not usable; create instances with New.
//
// Thread-safety: all methods are safe for concurrent use. Reads hold a shared
// lock, mutation holds an exclusive lock.
type Graph struct {
	mu       sync.RWMutex
	projects map[string]Project
	edges    map[edgeKey]Relationship
}

// Stats summarizes graph contents for diagnostics. It is not consumed by
// scoring.
type Stats struct {
	// Projects is the number of project nodes.
	Projects int `json:"projects"`

	// Relationships is the number of distinct edges.
	Relationships int `json:"relationships"`

	// Capabilities is the number of distinct capability kinds covered by at
	// least one project.
	Capabilities int `json:"capabilities"`
}

// SearchResult pairs a project with its relevance score for a Search query.
type SearchResult struct {
	Project Project `json:"project"`
	Score   float64 `json:"score"`
}

// New creates an empty knowledge graph.
func New() *Graph {
	return &Graph{
		projects: make(map[string]Project),
		edges:    make(map[edgeKey]Relationship),
	}
}

// AddProject inserts or replaces a project by name. Insertion is
// last-write-wins: re-adding a name overwrites the stored attributes and
// leaves the node count unchanged. Existing edges attached to the name are
// kept.
//
// Returns ErrInvalidProject if the project fails validation.
func (g *Graph) AddProject(p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.projects[p.Name] = p.clone()
	return nil
}

// AddRelationship inserts or updates an edge. The edge is identified by its
// (source, target, kind) triple; re-adding the triple updates strength and
// evidence in place.
//
// Returns ErrInvalidRelationship if the relationship fails validation and
// ErrUnknownProject if either endpoint is not present in the graph.
func (g *Graph) AddRelationship(r Relationship) error {
	if err := r.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.projects[r.Source]; !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownProject, r.Source)
	}
	if _, ok := g.projects[r.Target]; !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownProject, r.Target)
	}

	g.edges[edgeKey{source: r.Source, target: r.Target, kind: r.Kind}] = r
	return nil
}

// Project returns the project with the given name, or false if absent.
func (g *Graph) Project(name string) (Project, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.projects[name]
	if !ok {
		return Project{}, false
	}
	return p.clone(), true
}

// Projects returns all projects sorted by name.
func (g *Graph) Projects() []Project {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Project, 0, len(g.projects))
	for _, p := range g.projects {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindByCapability returns the names of all projects providing the given
// capability, ordered by descending popularity with ties broken by name.
// The ordering is load-bearing: the enumerator consumes it positionally, so
// it must be deterministic across calls.
func (g *Graph) FindByCapability(capability taxonomy.Capability) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	type entry struct {
		name       string
		popularity float64
	}
	var matches []entry
	for name, p := range g.projects {
		if p.Provides(capability) {
			matches = append(matches, entry{name: name, popularity: p.Popularity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].popularity != matches[j].popularity {
			return matches[i].popularity > matches[j].popularity
		}
		return matches[i].name < matches[j].name
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// RelationshipStrength returns the strength of the strongest compatibility
// edge between a and b, looking in both directions. Multiple edges between
// the same pair are max-reduced, and only compatible-with edges are
// considered; a conflicts-with edge never raises the result.
//
// Returns 0.0 when no compatibility edge exists in either direction. Zero
// means "no known relationship", not "incompatible".
func (g *Graph) RelationshipStrength(a, b string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	strength := 0.0
	if r, ok := g.edges[edgeKey{source: a, target: b, kind: taxonomy.RelationCompatibleWith}]; ok {
		strength = r.Strength
	}
	if r, ok := g.edges[edgeKey{source: b, target: a, kind: taxonomy.RelationCompatibleWith}]; ok && r.Strength > strength {
		strength = r.Strength
	}
	return strength
}

// Relationship returns the edge for the given triple, or false if absent.
func (g *Graph) Relationship(source, target string, kind taxonomy.Relation) (Relationship, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.edges[edgeKey{source: source, target: target, kind: kind}]
	return r, ok
}

// CompatibleProjects returns the names of all projects connected to the given
// project by a positive-strength compatibility edge in either direction,
// sorted by name.
func (g *Graph) CompatibleProjects(name string) []string {
	return g.neighbors(name, taxonomy.RelationCompatibleWith)
}

// Alternatives returns the names of all projects connected to the given
// project by an alternative-to edge in either direction, sorted by name.
func (g *Graph) Alternatives(name string) []string {
	return g.neighbors(name, taxonomy.RelationAlternativeTo)
}

func (g *Graph) neighbors(name string, kind taxonomy.Relation) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	for key, r := range g.edges {
		if key.kind != kind || r.Strength <= 0.0 {
			continue
		}
		switch name {
		case key.source:
			seen[key.target] = struct{}{}
		case key.target:
			seen[key.source] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Search scores projects by substring relevance against the query: name
// matches weigh 0.5, description matches 0.3, and capability matches 0.2.
// Results are sorted by descending score with ties broken by name.
func (g *Graph) Search(query string) []SearchResult {
	g.mu.RLock()
	defer g.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []SearchResult
	for _, p := range g.projects {
		score := 0.0
		if strings.Contains(strings.ToLower(p.Name), query) {
			score += 0.5
		}
		if p.Description != "" && strings.Contains(strings.ToLower(p.Description), query) {
			score += 0.3
		}
		for _, c := range p.Capabilities {
			if strings.Contains(c.String(), query) {
				score += 0.2
				break
			}
		}
		if score > 0 {
			results = append(results, SearchResult{Project: p.clone(), Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Project.Name < results[j].Project.Name
	})
	return results
}

// Stats returns counts of projects, edges, and distinct capability kinds.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	caps := make(map[taxonomy.Capability]struct{})
	for _, p := range g.projects {
		for _, c := range p.Capabilities {
			caps[c] = struct{}{}
		}
	}

	return Stats{
		Projects:      len(g.projects),
		Relationships: len(g.edges),
		Capabilities:  len(caps),
	}
}

// Clear resets the graph to empty. Used for test isolation and re-seeding.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.projects = make(map[string]Project)
	g.edges = make(map[edgeKey]Relationship)
}
