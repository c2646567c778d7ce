package weaver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
)

// patternNamespace seeds deterministic pattern IDs. The same project set
// always maps to the same ID, which keeps repeated Rank calls byte-identical
// and lets callers correlate patterns across runs.
var patternNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// Pattern is one ranked, serializable recommendation. This structure is the
// sole contract consumed by presentation, manifest-generation, and
// persistence collaborators; field changes must stay backward compatible.
type Pattern struct {
	// ID is a deterministic UUID derived from the pattern's project set.
	ID string `json:"id"`

	// Name is a generated human-readable title.
	Name string `json:"name"`

	// Description summarizes what the pattern covers.
	Description string `json:"description"`

	// Confidence is the composite confidence score in [0.0, 1.0].
	Confidence float64 `json:"confidence"`

	// Complexity is the composite complexity score in [0.0, 1.0].
	Complexity float64 `json:"complexity"`

	// Scores carries the full sub-score breakdown for explainability.
	Scores Breakdown `json:"scores"`

	// Components lists the role assignments, one entry per required
	// capability. A project reused across roles appears once per role.
	Components []Component `json:"components"`

	// Connections flattens the relationships found among the chosen
	// projects.
	Connections []Connection `json:"connections"`
}

// Component is one role assignment within a pattern.
type Component struct {
	// Role is the human-readable role title (e.g., "Primary Database").
	Role string `json:"role"`

	// Capability is the required capability kind this component fills.
	Capability taxonomy.Capability `json:"capability"`

	// Name is the chosen project's name.
	Name string `json:"name"`

	// Capabilities lists everything the chosen project provides.
	Capabilities []taxonomy.Capability `json:"capabilities"`

	// License is the project's license identifier, or "Unknown".
	License string `json:"license"`

	// Popularity is the project's popularity score.
	Popularity float64 `json:"popularity"`
}

// Connection is one resolved relationship between two chosen projects.
type Connection struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Type     taxonomy.Relation `json:"type"`
	Strength float64           `json:"strength"`
	Evidence string            `json:"evidence,omitempty"`
}

// roleTitles maps capability kinds to role titles for component listings.
var roleTitles = map[taxonomy.Capability]string{
	taxonomy.CapabilityWebFramework:   "Application Framework",
	taxonomy.CapabilityAPIGateway:     "API Gateway",
	taxonomy.CapabilityDatabase:       "Primary Database",
	taxonomy.CapabilityCache:          "Cache Layer",
	taxonomy.CapabilityStorage:        "File Storage",
	taxonomy.CapabilityObjectStorage:  "Object Storage",
	taxonomy.CapabilitySearch:         "Search Engine",
	taxonomy.CapabilityVectorDB:       "Vector Store",
	taxonomy.CapabilityMessageQueue:   "Message Queue",
	taxonomy.CapabilityStreaming:      "Streaming Pipeline",
	taxonomy.CapabilityEventBus:       "Event Bus",
	taxonomy.CapabilityAuthentication: "Authentication",
	taxonomy.CapabilityAuthorization:  "Authorization",
	taxonomy.CapabilitySecrets:        "Secrets Management",
	taxonomy.CapabilityMonitoring:     "Monitoring",
	taxonomy.CapabilityLogging:        "Log Aggregation",
	taxonomy.CapabilityTracing:        "Distributed Tracing",
	taxonomy.CapabilityAIModel:        "AI/ML Serving",
	taxonomy.CapabilityLoadBalancer:   "Load Balancer",
	taxonomy.CapabilityReverseProxy:   "Reverse Proxy",
	taxonomy.CapabilityCDN:            "CDN",
	taxonomy.CapabilityEmail:          "Email Service",
	taxonomy.CapabilityNotification:   "Notification Service",
	taxonomy.CapabilityPayment:        "Payment Processor",
	taxonomy.CapabilityWorkflow:       "Workflow Engine",
}

// roleTitle returns the role title for a capability, falling back to a
// title-cased form of the kind itself.
func roleTitle(capability taxonomy.Capability) string {
	if title, ok := roleTitles[capability]; ok {
		return title
	}
	words := strings.Split(capability.String(), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// buildPattern materializes a scored candidate into the serializable form.
func buildPattern(g *graph.Graph, candidate Candidate, scores Breakdown) Pattern {
	components := make([]Component, 0, len(candidate.Assignments))
	for _, a := range candidate.Assignments {
		component := Component{
			Role:       roleTitle(a.Capability),
			Capability: a.Capability,
			Name:       a.Project,
			License:    "Unknown",
		}
		if p, ok := g.Project(a.Project); ok {
			component.Capabilities = p.Capabilities
			component.Popularity = p.Popularity
			if p.License != "" {
				component.License = p.License
			}
		}
		components = append(components, component)
	}

	projects := candidate.Projects()
	return Pattern{
		ID:          uuid.NewSHA1(patternNamespace, []byte(candidate.key())).String(),
		Name:        patternName(projects),
		Description: patternDescription(candidate),
		Confidence:  scores.Confidence,
		Complexity:  scores.Complexity,
		Scores:      scores,
		Components:  components,
		Connections: resolveConnections(g, projects),
	}
}

// patternName derives a title from the distinct project names.
func patternName(projects []string) string {
	return strings.Join(projects, " + ") + " Stack"
}

// patternDescription summarizes the covered roles, calling out reuse when one
// project fills several of them.
func patternDescription(candidate Candidate) string {
	roles := make([]string, len(candidate.Assignments))
	for i, a := range candidate.Assignments {
		roles[i] = a.Capability.String()
	}
	projects := candidate.Projects()

	desc := fmt.Sprintf("Covers %s with %d component", strings.Join(roles, ", "), len(projects))
	if len(projects) != 1 {
		desc += "s"
	}
	if len(projects) < len(candidate.Assignments) {
		desc += " (one project fills multiple roles)"
	}
	return desc
}

// resolveConnections collects every stored edge between distinct chosen
// projects, both directions and all relation kinds, in deterministic order.
func resolveConnections(g *graph.Graph, projects []string) []Connection {
	var connections []Connection
	for i := 0; i < len(projects); i++ {
		for j := 0; j < len(projects); j++ {
			if i == j {
				continue
			}
			for _, kind := range taxonomy.AllRelations() {
				r, ok := g.Relationship(projects[i], projects[j], kind)
				if !ok {
					continue
				}
				connections = append(connections, Connection{
					From:     r.Source,
					To:       r.Target,
					Type:     r.Kind,
					Strength: r.Strength,
					Evidence: r.Evidence,
				})
			}
		}
	}
	return connections
}
