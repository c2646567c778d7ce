// Package evolver proposes directed changes to an existing pattern. An
// evolution never rewrites the pattern in place; it returns a plan of
// concrete, graph-backed changes for the caller to apply or discard.
package evolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
	"github.com/MartiniMaung/loom/weaver"
)

// Change is a single proposed modification.
type Change struct {
	Action     Action              `json:"action"`
	Capability taxonomy.Capability `json:"capability"`

	// From is the component being replaced or consolidated away. Empty for
	// additions.
	From string `json:"from,omitempty"`

	// To is the component filling the role after the change.
	To string `json:"to"`

	Reason string `json:"reason"`
}

// Plan is the result of evolving one pattern in one direction.
type Plan struct {
	Kind    Kind     `json:"kind"`
	Changes []Change `json:"changes"`
}

// Evolver derives evolution plans from the knowledge graph.
type Evolver struct {
	graph *graph.Graph
	cfg   weaver.ScoringConfig
}

// New returns an Evolver reading candidates from g. The scoring
// configuration supplies the restrictive-license list used by trim-cost
// evolutions.
func New(g *graph.Graph, cfg weaver.ScoringConfig) *Evolver {
	return &Evolver{graph: g, cfg: cfg}
}

// lowSecurityFloor is the security score below which harden evolutions
// look for a replacement.
const lowSecurityFloor = 0.4

// Evolve proposes changes to the pattern in the direction of kind. The
// plan's change list is deterministic for a given graph and pattern; it is
// empty when the graph offers nothing to improve.
func (e *Evolver) Evolve(pattern weaver.Pattern, kind Kind) (Plan, error) {
	if !kind.IsValid() {
		return Plan{}, fmt.Errorf("invalid evolution kind: %s", kind)
	}

	plan := Plan{Kind: kind}
	switch kind {
	case KindScale:
		plan.Changes = e.scale(pattern)
	case KindHarden:
		plan.Changes = e.harden(pattern)
	case KindTrimCost:
		plan.Changes = e.trimCost(pattern)
	}
	return plan, nil
}

func (e *Evolver) scale(pattern weaver.Pattern) []Change {
	var changes []Change

	if hasCapability(pattern, taxonomy.CapabilityDatabase) && !hasCapability(pattern, taxonomy.CapabilityCache) {
		if top, ok := e.topProvider(taxonomy.CapabilityCache); ok {
			changes = append(changes, Change{
				Action:     ActionAdd,
				Capability: taxonomy.CapabilityCache,
				To:         top.Name,
				Reason:     "cache hot reads in front of the database",
			})
		}
	}
	if hasCapability(pattern, taxonomy.CapabilityWebFramework) && !hasCapability(pattern, taxonomy.CapabilityLoadBalancer) {
		if top, ok := e.topProvider(taxonomy.CapabilityLoadBalancer); ok {
			changes = append(changes, Change{
				Action:     ActionAdd,
				Capability: taxonomy.CapabilityLoadBalancer,
				To:         top.Name,
				Reason:     "distribute traffic across application instances",
			})
		}
	}
	if hasCapability(pattern, taxonomy.CapabilityWebFramework) &&
		hasCapability(pattern, taxonomy.CapabilityDatabase) &&
		!hasCapability(pattern, taxonomy.CapabilityMessageQueue) {
		if top, ok := e.topProvider(taxonomy.CapabilityMessageQueue); ok {
			changes = append(changes, Change{
				Action:     ActionAdd,
				Capability: taxonomy.CapabilityMessageQueue,
				To:         top.Name,
				Reason:     "move heavy work off the request path",
			})
		}
	}

	return changes
}

func (e *Evolver) harden(pattern weaver.Pattern) []Change {
	var changes []Change

	for _, c := range distinctComponents(pattern) {
		project, ok := e.graph.Project(c.Name)
		if !ok || project.SecurityScore >= lowSecurityFloor {
			continue
		}
		replacement, ok := e.saferAlternative(project)
		if !ok {
			continue
		}
		changes = append(changes, Change{
			Action:     ActionReplace,
			Capability: c.Capability,
			From:       c.Name,
			To:         replacement.Name,
			Reason: fmt.Sprintf("%s has a stronger security track record (%.2f vs %.2f)",
				replacement.Name, replacement.SecurityScore, project.SecurityScore),
		})
	}

	if hasCapability(pattern, taxonomy.CapabilityWebFramework) && !hasCapability(pattern, taxonomy.CapabilityAuthentication) {
		if top, ok := e.topProvider(taxonomy.CapabilityAuthentication); ok {
			changes = append(changes, Change{
				Action:     ActionAdd,
				Capability: taxonomy.CapabilityAuthentication,
				To:         top.Name,
				Reason:     "web applications need an authentication component",
			})
		}
	}
	if !hasCapability(pattern, taxonomy.CapabilityMonitoring) {
		if top, ok := e.topProvider(taxonomy.CapabilityMonitoring); ok {
			changes = append(changes, Change{
				Action:     ActionAdd,
				Capability: taxonomy.CapabilityMonitoring,
				To:         top.Name,
				Reason:     "surface anomalies before they become incidents",
			})
		}
	}

	return changes
}

func (e *Evolver) trimCost(pattern weaver.Pattern) []Change {
	var changes []Change

	components := distinctComponents(pattern)

	// Consolidate roles onto components already present. A component that
	// happens to provide another component's capability can absorb it.
	for _, role := range pattern.Components {
		for _, host := range components {
			if host.Name == role.Name {
				continue
			}
			if !provides(host, role.Capability) {
				continue
			}
			changes = append(changes, Change{
				Action:     ActionConsolidate,
				Capability: role.Capability,
				From:       role.Name,
				To:         host.Name,
				Reason: fmt.Sprintf("%s already provides %s, one less component to operate",
					host.Name, role.Capability),
			})
			break
		}
	}

	// Swap restrictive licenses for permissive alternatives.
	for _, c := range components {
		if !e.restrictive(c.License) {
			continue
		}
		replacement, ok := e.permissiveAlternative(c.Name)
		if !ok {
			continue
		}
		changes = append(changes, Change{
			Action:     ActionReplace,
			Capability: c.Capability,
			From:       c.Name,
			To:         replacement.Name,
			Reason: fmt.Sprintf("%s is %s licensed, avoiding %s commercial terms",
				replacement.Name, replacement.License, c.License),
		})
	}

	return changes
}

// topProvider returns the highest-popularity provider of a capability.
func (e *Evolver) topProvider(kind taxonomy.Capability) (graph.Project, bool) {
	names := e.graph.FindByCapability(kind)
	if len(names) == 0 {
		return graph.Project{}, false
	}
	return e.graph.Project(names[0])
}

// saferAlternative picks the alternative-to neighbor with the best security
// score that actually improves on the project, preferring popularity on
// ties.
func (e *Evolver) saferAlternative(project graph.Project) (graph.Project, bool) {
	alternatives := e.resolveAlternatives(project.Name)
	sort.SliceStable(alternatives, func(i, j int) bool {
		if alternatives[i].SecurityScore != alternatives[j].SecurityScore {
			return alternatives[i].SecurityScore > alternatives[j].SecurityScore
		}
		return alternatives[i].Popularity > alternatives[j].Popularity
	})
	for _, alt := range alternatives {
		if alt.SecurityScore > project.SecurityScore {
			return alt, true
		}
	}
	return graph.Project{}, false
}

// permissiveAlternative picks the most popular alternative-to neighbor
// whose license is outside the restrictive set.
func (e *Evolver) permissiveAlternative(name string) (graph.Project, bool) {
	alternatives := e.resolveAlternatives(name)
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Popularity > alternatives[j].Popularity
	})
	for _, alt := range alternatives {
		if !e.restrictive(alt.License) {
			return alt, true
		}
	}
	return graph.Project{}, false
}

func (e *Evolver) resolveAlternatives(name string) []graph.Project {
	names := e.graph.Alternatives(name)
	out := make([]graph.Project, 0, len(names))
	for _, n := range names {
		if p, ok := e.graph.Project(n); ok {
			out = append(out, p)
		}
	}
	return out
}

func (e *Evolver) restrictive(license string) bool {
	for _, prefix := range e.cfg.RestrictiveLicenses {
		if prefix != "" && strings.HasPrefix(license, prefix) {
			return true
		}
	}
	return false
}

func hasCapability(pattern weaver.Pattern, kind taxonomy.Capability) bool {
	for _, c := range pattern.Components {
		if provides(c, kind) {
			return true
		}
	}
	return false
}

func provides(c weaver.Component, kind taxonomy.Capability) bool {
	for _, provided := range c.Capabilities {
		if provided == kind {
			return true
		}
	}
	return false
}

// distinctComponents collapses role entries down to one entry per project,
// sorted by name.
func distinctComponents(pattern weaver.Pattern) []weaver.Component {
	seen := make(map[string]struct{}, len(pattern.Components))
	var out []weaver.Component
	for _, c := range pattern.Components {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
