package weaver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Priority is the caller's urgency hint. It is carried through to consumers
// of the result set and does not influence scoring.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ConstraintCommercialUse is the well-known constraint key checked by the
// robustness scorer. When set to true, candidates containing
// restrictive-license components are penalized.
const ConstraintCommercialUse = "commercial-use"

// Intent is one reasoning request: what the caller wants to build, which
// capability roles must be covered, and any named constraints. Intents are
// ephemeral; they are constructed per call and never persisted by the core.
type Intent struct {
	// Description is a free-text statement of what the system should do.
	Description string `json:"description"`

	// Required is the set of capability roles that every candidate must
	// cover. Order is irrelevant; duplicates are ignored.
	Required []taxonomy.Capability `json:"required_capabilities"`

	// Constraints maps named constraints to their effect. Boolean values are
	// flags consumed by scoring (see ConstraintCommercialUse); string values
	// are filter expressions evaluated against each scored pattern.
	Constraints map[string]any `json:"constraints,omitempty"`

	// Priority is the caller's urgency hint.
	Priority Priority `json:"priority,omitempty"`
}

// NewIntent creates an Intent with medium priority and no constraints.
func NewIntent(description string, required ...taxonomy.Capability) Intent {
	return Intent{
		Description: description,
		Required:    required,
		Priority:    PriorityMedium,
	}
}

// WithConstraint sets a named constraint and returns the intent for chaining.
func (in Intent) WithConstraint(name string, value any) Intent {
	constraints := make(map[string]any, len(in.Constraints)+1)
	for k, v := range in.Constraints {
		constraints[k] = v
	}
	constraints[name] = value
	in.Constraints = constraints
	return in
}

// WithPriority sets the priority hint and returns the intent for chaining.
func (in Intent) WithPriority(p Priority) Intent {
	in.Priority = p
	return in
}

// Validate checks that the intent names at least one required capability and
// that every capability is part of the taxonomy.
// Returns ErrInvalidIntent otherwise.
func (in Intent) Validate() error {
	if len(in.Required) == 0 {
		return fmt.Errorf("%w: no required capabilities", ErrInvalidIntent)
	}
	for _, c := range in.Required {
		if !c.IsValid() {
			return fmt.Errorf("%w: unknown capability kind %q", ErrInvalidIntent, c)
		}
	}
	return nil
}

// normalizedRequired returns the required capabilities sorted and
// deduplicated. Enumeration and scoring consume this canonical order so the
// same intent always walks the search space the same way.
func (in Intent) normalizedRequired() []taxonomy.Capability {
	seen := make(map[taxonomy.Capability]struct{}, len(in.Required))
	out := make([]taxonomy.Capability, 0, len(in.Required))
	for _, c := range in.Required {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Fingerprint returns a stable hex digest of the intent's reasoning-relevant
// fields. Two intents with the same required capabilities and constraints
// produce the same fingerprint regardless of capability order, which makes it
// usable as a cache key for ranked results.
func (in Intent) Fingerprint() string {
	h := sha256.New()
	for _, c := range in.normalizedRequired() {
		fmt.Fprintf(h, "cap:%s\n", c)
	}

	keys := make([]string, 0, len(in.Constraints))
	for k := range in.Constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "constraint:%s=%v\n", k, in.Constraints[k])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// commercialUse reports whether the commercial-use constraint flag is set.
func (in Intent) commercialUse() bool {
	v, ok := in.Constraints[ConstraintCommercialUse]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
