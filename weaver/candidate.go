package weaver

import (
	"sort"
	"strings"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Assignment binds one required capability role to the project chosen to
// fill it.
type Assignment struct {
	Capability taxonomy.Capability `json:"capability"`
	Project    string              `json:"project"`
}

// Candidate is one unscored covering combination: exactly one project per
// required capability. The same project may fill several roles when it
// provides more than one of the required capabilities.
type Candidate struct {
	// Assignments lists the role bindings in canonical (sorted capability)
	// order.
	Assignments []Assignment `json:"assignments"`
}

// Projects returns the distinct project names in the candidate, sorted.
func (c Candidate) Projects() []string {
	seen := make(map[string]struct{}, len(c.Assignments))
	out := make([]string, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		if _, ok := seen[a.Project]; ok {
			continue
		}
		seen[a.Project] = struct{}{}
		out = append(out, a.Project)
	}
	sort.Strings(out)
	return out
}

// key identifies the candidate by its project set. Two candidates assigning
// the same projects are duplicates regardless of role bookkeeping, so the
// key ignores which role each project fills.
func (c Candidate) key() string {
	return strings.Join(c.Projects(), "\x00")
}
