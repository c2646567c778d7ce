package weaver

import (
	"fmt"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
)

// Enumerator builds every minimal covering combination of projects for a set
// of required capabilities, bounded by the enumeration config.
type Enumerator struct {
	graph *graph.Graph
	cfg   EnumerationConfig
}

// Enumeration is the enumerator's output: the deduplicated candidate set and
// whether any provider list was truncated to reach it. Truncation is surfaced
// rather than hidden so callers can tell a complete ranking from a bounded one.
type Enumeration struct {
	Candidates []Candidate
	Truncated  bool
}

// NewEnumerator creates an Enumerator over the given graph.
func NewEnumerator(g *graph.Graph, cfg EnumerationConfig) *Enumerator {
	return &Enumerator{graph: g, cfg: cfg}
}

// Enumerate produces the candidate combinations for the intent's required
// capabilities.
//
// For each required capability the provider list comes from the graph in its
// deterministic order (descending popularity, ties by name) and is cut to the
// configured top-N. Projects providing two or more of the required
// capabilities are retained past the cut: combinations that reuse one project
// across several roles are both simpler and better-verified, so they must
// never be truncated away. The Cartesian product across the cut lists is then
// taken and deduplicated by project set.
//
// Errors: ErrInvalidIntent for an empty capability set, ErrUnsatisfiableIntent
// naming the first capability with zero providers, and ErrComplexityLimit if
// the product would exceed the hard candidate ceiling.
func (e *Enumerator) Enumerate(intent Intent) (Enumeration, error) {
	if err := intent.Validate(); err != nil {
		return Enumeration{}, err
	}
	required := intent.normalizedRequired()

	providers := make([][]string, len(required))
	truncated := false
	for i, capability := range required {
		names := e.graph.FindByCapability(capability)
		if len(names) == 0 {
			return Enumeration{}, fmt.Errorf("%w: no provider for capability %q", ErrUnsatisfiableIntent, capability)
		}

		cut, wasCut := e.truncate(names, required)
		providers[i] = cut
		truncated = truncated || wasCut
	}

	total := 1
	for _, list := range providers {
		total *= len(list)
		if total > e.cfg.MaxCandidates {
			return Enumeration{}, fmt.Errorf("%w: more than %d combinations for %d capabilities",
				ErrComplexityLimit, e.cfg.MaxCandidates, len(required))
		}
	}

	candidates := make([]Candidate, 0, total)
	seen := make(map[string]struct{}, total)

	// Odometer walk over the provider lists. List order is deterministic, so
	// the first candidate seen for a given project set is deterministic too.
	indices := make([]int, len(providers))
	for {
		assignments := make([]Assignment, len(required))
		for i, capability := range required {
			assignments[i] = Assignment{Capability: capability, Project: providers[i][indices[i]]}
		}
		candidate := Candidate{Assignments: assignments}

		if _, dup := seen[candidate.key()]; !dup {
			seen[candidate.key()] = struct{}{}
			candidates = append(candidates, candidate)
		}

		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(providers[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return Enumeration{Candidates: candidates, Truncated: truncated}, nil
}

// truncate cuts a provider list to the configured top-N, then re-appends any
// dropped project that provides at least two of the required capabilities.
func (e *Enumerator) truncate(names []string, required []taxonomy.Capability) ([]string, bool) {
	if len(names) <= e.cfg.TopPerCapability {
		return names, false
	}

	cut := make([]string, 0, e.cfg.TopPerCapability)
	cut = append(cut, names[:e.cfg.TopPerCapability]...)

	dropped := false
	for _, name := range names[e.cfg.TopPerCapability:] {
		if e.coversMultiple(name, required) {
			cut = append(cut, name)
		} else {
			dropped = true
		}
	}
	return cut, dropped
}

// coversMultiple reports whether the project provides two or more of the
// required capabilities.
func (e *Enumerator) coversMultiple(name string, required []taxonomy.Capability) bool {
	p, ok := e.graph.Project(name)
	if !ok {
		return false
	}
	count := 0
	for _, capability := range required {
		if p.Provides(capability) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}
