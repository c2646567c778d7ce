package graph

import (
	"fmt"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Project represents one OSS project node in the knowledge graph.
// A project is identified by its name, which is unique within a graph
// instance. Capability order is meaningful: the first capability is the
// project's primary role and is used by fit scoring.
type Project struct {
	// Name is the unique project identifier (e.g., "PostgreSQL").
	Name string `json:"name"`

	// Description is a free-text summary of what the project does.
	Description string `json:"description,omitempty"`

	// Capabilities lists the capability kinds the project provides.
	// At least one is required; the first entry is the primary capability.
	Capabilities []taxonomy.Capability `json:"capabilities"`

	// License is the license identifier (e.g., "Apache-2.0"). May be empty
	// when unknown.
	License string `json:"license,omitempty"`

	// Popularity is the ecosystem popularity score in [0.0, 1.0].
	Popularity float64 `json:"popularity"`

	// SecurityScore is the security posture score in [0.0, 1.0].
	// Defaults to 0.5 (neutral) when nothing is known.
	SecurityScore float64 `json:"security_score"`

	// Tags holds free-text compatibility tags (e.g., "python", "k8s-native").
	Tags []string `json:"tags,omitempty"`
}

// NewProject creates a Project with the given name and capabilities and
// neutral default scores.
func NewProject(name string, capabilities ...taxonomy.Capability) Project {
	return Project{
		Name:          name,
		Capabilities:  capabilities,
		Popularity:    0.5,
		SecurityScore: 0.5,
	}
}

// WithDescription sets the description and returns the project for chaining.
func (p Project) WithDescription(description string) Project {
	p.Description = description
	return p
}

// WithLicense sets the license identifier and returns the project for chaining.
func (p Project) WithLicense(license string) Project {
	p.License = license
	return p
}

// WithPopularity sets the popularity score and returns the project for chaining.
func (p Project) WithPopularity(score float64) Project {
	p.Popularity = score
	return p
}

// WithSecurityScore sets the security score and returns the project for chaining.
func (p Project) WithSecurityScore(score float64) Project {
	p.SecurityScore = score
	return p
}

// WithTags sets the compatibility tags and returns the project for chaining.
func (p Project) WithTags(tags ...string) Project {
	p.Tags = tags
	return p
}

// Primary returns the project's primary capability: the first one declared.
func (p Project) Primary() taxonomy.Capability {
	if len(p.Capabilities) == 0 {
		return ""
	}
	return p.Capabilities[0]
}

// Provides returns true if the project declares the given capability.
func (p Project) Provides(capability taxonomy.Capability) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Validate checks that the project is well-formed: a non-empty name, at least
// one capability, only known capability kinds, and scores within [0.0, 1.0].
func (p Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	if len(p.Capabilities) == 0 {
		return fmt.Errorf("%w: project %q provides no capabilities", ErrInvalidProject, p.Name)
	}
	for _, c := range p.Capabilities {
		if !c.IsValid() {
			return fmt.Errorf("%w: project %q has unknown capability kind %q", ErrInvalidProject, p.Name, c)
		}
	}
	if p.Popularity < 0.0 || p.Popularity > 1.0 {
		return fmt.Errorf("%w: project %q popularity %.2f outside [0.0, 1.0]", ErrInvalidProject, p.Name, p.Popularity)
	}
	if p.SecurityScore < 0.0 || p.SecurityScore > 1.0 {
		return fmt.Errorf("%w: project %q security score %.2f outside [0.0, 1.0]", ErrInvalidProject, p.Name, p.SecurityScore)
	}
	return nil
}

// clone returns a deep copy so stored projects stay immutable from the
// caller's point of view.
func (p Project) clone() Project {
	out := p
	out.Capabilities = make([]taxonomy.Capability, len(p.Capabilities))
	copy(out.Capabilities, p.Capabilities)
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return out
}
