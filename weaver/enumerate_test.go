package weaver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
)

func newTestGraph(t *testing.T, projects ...graph.Project) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, p := range projects {
		require.NoError(t, g.AddProject(p))
	}
	return g
}

func TestEnumerateSingleCombination(t *testing.T) {
	g := newTestGraph(t,
		graph.NewProject("Django", taxonomy.CapabilityWebFramework).WithPopularity(0.9),
		graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase).WithPopularity(0.95),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	out, err := e.Enumerate(NewIntent("web app", taxonomy.CapabilityWebFramework, taxonomy.CapabilityDatabase))
	require.NoError(t, err)
	require.Len(t, out.Candidates, 1)
	assert.False(t, out.Truncated)

	// Canonical assignment order is sorted capability order.
	assert.Equal(t, []Assignment{
		{Capability: taxonomy.CapabilityDatabase, Project: "PostgreSQL"},
		{Capability: taxonomy.CapabilityWebFramework, Project: "Django"},
	}, out.Candidates[0].Assignments)
}

func TestEnumerateCartesianProduct(t *testing.T) {
	g := newTestGraph(t,
		graph.NewProject("Django", taxonomy.CapabilityWebFramework).WithPopularity(0.9),
		graph.NewProject("FastAPI", taxonomy.CapabilityWebFramework).WithPopularity(0.85),
		graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase).WithPopularity(0.95),
		graph.NewProject("MySQL", taxonomy.CapabilityDatabase).WithPopularity(0.9),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	out, err := e.Enumerate(NewIntent("web app", taxonomy.CapabilityWebFramework, taxonomy.CapabilityDatabase))
	require.NoError(t, err)
	assert.Len(t, out.Candidates, 4)
}

func TestEnumerateUnsatisfiable(t *testing.T) {
	g := newTestGraph(t,
		graph.NewProject("Django", taxonomy.CapabilityWebFramework).WithPopularity(0.9),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	_, err := e.Enumerate(NewIntent("needs search", taxonomy.CapabilityWebFramework, taxonomy.CapabilitySearch))
	require.ErrorIs(t, err, ErrUnsatisfiableIntent)
	assert.Contains(t, err.Error(), "search", "error must name the uncoverable capability")
}

func TestEnumerateEmptyIntent(t *testing.T) {
	g := newTestGraph(t)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	_, err := e.Enumerate(NewIntent("nothing required"))
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestEnumerateReuseCandidate(t *testing.T) {
	// Redis provides both required capabilities; the reuse combination must
	// be generated alongside the two-project ones.
	g := newTestGraph(t,
		graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase).WithPopularity(0.95),
		graph.NewProject("Redis", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache).WithPopularity(0.92),
		graph.NewProject("Memcached", taxonomy.CapabilityCache).WithPopularity(0.7),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	out, err := e.Enumerate(NewIntent("store", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache))
	require.NoError(t, err)

	var sets [][]string
	for _, c := range out.Candidates {
		sets = append(sets, c.Projects())
	}
	assert.Contains(t, sets, []string{"Redis"}, "single-project reuse candidate must be generated")
	assert.Contains(t, sets, []string{"Memcached", "PostgreSQL"})
}

func TestEnumerateDeduplicatesByProjectSet(t *testing.T) {
	// Both projects provide both capabilities, so role-swapped assignments
	// resolve to the same project sets.
	g := newTestGraph(t,
		graph.NewProject("Redis", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache).WithPopularity(0.92),
		graph.NewProject("KeyDB", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache).WithPopularity(0.6),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)

	out, err := e.Enumerate(NewIntent("store", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache))
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, c := range out.Candidates {
		seen[fmt.Sprint(c.Projects())]++
	}
	for set, count := range seen {
		assert.Equal(t, 1, count, "project set %s appears more than once", set)
	}
	// {Redis}, {KeyDB}, {Redis,KeyDB}
	assert.Len(t, out.Candidates, 3)
}

func TestEnumerateTruncation(t *testing.T) {
	projects := []graph.Project{}
	for i := 0; i < 8; i++ {
		projects = append(projects,
			graph.NewProject(fmt.Sprintf("DB-%d", i), taxonomy.CapabilityDatabase).
				WithPopularity(0.9-float64(i)*0.05))
	}
	projects = append(projects, graph.NewProject("Nginx", taxonomy.CapabilityLoadBalancer).WithPopularity(0.9))
	g := newTestGraph(t, projects...)

	cfg := EnumerationConfig{TopPerCapability: 3, MaxCandidates: 512}
	e := NewEnumerator(g, cfg)

	out, err := e.Enumerate(NewIntent("store", taxonomy.CapabilityDatabase, taxonomy.CapabilityLoadBalancer))
	require.NoError(t, err)
	assert.True(t, out.Truncated, "truncation must be reported, not hidden")
	assert.Len(t, out.Candidates, 3, "only top-N database providers survive")

	// The top providers by popularity are kept.
	var names []string
	for _, c := range out.Candidates {
		for _, a := range c.Assignments {
			if a.Capability == taxonomy.CapabilityDatabase {
				names = append(names, a.Project)
			}
		}
	}
	assert.ElementsMatch(t, []string{"DB-0", "DB-1", "DB-2"}, names)
}

func TestEnumerateTruncationRetainsMultiCapabilityProviders(t *testing.T) {
	// SwissKnife is the least popular database provider but covers both
	// required roles; the cut must not drop it.
	projects := []graph.Project{
		graph.NewProject("SwissKnife", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache).WithPopularity(0.1),
		graph.NewProject("Memcached", taxonomy.CapabilityCache).WithPopularity(0.8),
	}
	for i := 0; i < 5; i++ {
		projects = append(projects,
			graph.NewProject(fmt.Sprintf("DB-%d", i), taxonomy.CapabilityDatabase).
				WithPopularity(0.9-float64(i)*0.05))
	}
	g := newTestGraph(t, projects...)

	cfg := EnumerationConfig{TopPerCapability: 2, MaxCandidates: 512}
	e := NewEnumerator(g, cfg)

	out, err := e.Enumerate(NewIntent("store", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache))
	require.NoError(t, err)

	var sets [][]string
	for _, c := range out.Candidates {
		sets = append(sets, c.Projects())
	}
	assert.Contains(t, sets, []string{"SwissKnife"},
		"multi-capability provider must survive per-capability truncation")
}

func TestEnumerateComplexityLimit(t *testing.T) {
	var projects []graph.Project
	for i := 0; i < 4; i++ {
		projects = append(projects,
			graph.NewProject(fmt.Sprintf("DB-%d", i), taxonomy.CapabilityDatabase).WithPopularity(0.5),
			graph.NewProject(fmt.Sprintf("Cache-%d", i), taxonomy.CapabilityCache).WithPopularity(0.5),
		)
	}
	g := newTestGraph(t, projects...)

	cfg := EnumerationConfig{TopPerCapability: 4, MaxCandidates: 10}
	e := NewEnumerator(g, cfg)

	_, err := e.Enumerate(NewIntent("store", taxonomy.CapabilityDatabase, taxonomy.CapabilityCache))
	assert.ErrorIs(t, err, ErrComplexityLimit)
}

func TestEnumerateDeterministic(t *testing.T) {
	g := newTestGraph(t,
		graph.NewProject("Django", taxonomy.CapabilityWebFramework).WithPopularity(0.9),
		graph.NewProject("FastAPI", taxonomy.CapabilityWebFramework).WithPopularity(0.85),
		graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase).WithPopularity(0.95),
		graph.NewProject("MySQL", taxonomy.CapabilityDatabase).WithPopularity(0.9),
	)
	e := NewEnumerator(g, DefaultConfig().Enumeration)
	intent := NewIntent("web app", taxonomy.CapabilityWebFramework, taxonomy.CapabilityDatabase)

	first, err := e.Enumerate(intent)
	require.NoError(t, err)
	second, err := e.Enumerate(intent)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
