package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
	"github.com/MartiniMaung/loom/weaver"
)

func newAuditGraph(t *testing.T, projects ...graph.Project) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, p := range projects {
		require.NoError(t, g.AddProject(p))
	}
	return g
}

func patternFor(components ...weaver.Component) weaver.Pattern {
	return weaver.Pattern{Name: "test pattern", Components: components}
}

func component(name string, primary taxonomy.Capability, license string) weaver.Component {
	return weaver.Component{
		Role:         "Component",
		Capability:   primary,
		Name:         name,
		Capabilities: []taxonomy.Capability{primary},
		License:      license,
	}
}

func findByTitle(findings []Finding, title string) (Finding, bool) {
	for _, f := range findings {
		if f.Title == title {
			return f, true
		}
	}
	return Finding{}, false
}

func TestAuditConflictingComponents(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("A", taxonomy.CapabilityDatabase),
		graph.NewProject("B", taxonomy.CapabilityCache),
	)
	require.NoError(t, g.AddRelationship(
		graph.NewRelationship("A", "B", taxonomy.RelationConflictsWith).
			WithEvidence("shared port contention")))

	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("A", taxonomy.CapabilityDatabase, "MIT"),
		component("B", taxonomy.CapabilityCache, "MIT"),
	), nil)

	f, ok := findByTitle(report.Findings, "conflicting components")
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Equal(t, CategoryCompatibility, f.Category)
	assert.Equal(t, []string{"A", "B"}, f.Components)
	assert.Contains(t, f.Detail, "shared port contention")
	assert.True(t, report.HasBlocking())
	assert.Positive(t, report.Risk)
}

func TestAuditWeakCompatibility(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("A", taxonomy.CapabilityDatabase),
		graph.NewProject("B", taxonomy.CapabilityCache),
	)
	require.NoError(t, g.AddRelationship(
		graph.NewRelationship("A", "B", taxonomy.RelationCompatibleWith).WithStrength(0.1)))

	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("A", taxonomy.CapabilityDatabase, "MIT"),
		component("B", taxonomy.CapabilityCache, "MIT"),
	), nil)

	f, ok := findByTitle(report.Findings, "weak compatibility evidence")
	require.True(t, ok)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.False(t, report.HasBlocking())
}

func TestAuditUnknownPairNotWeak(t *testing.T) {
	// No edge at all is absence of evidence, not weak evidence.
	g := newAuditGraph(t,
		graph.NewProject("A", taxonomy.CapabilityDatabase),
		graph.NewProject("B", taxonomy.CapabilityCache),
	)
	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("A", taxonomy.CapabilityDatabase, "MIT"),
		component("B", taxonomy.CapabilityCache, "MIT"),
	), nil)

	_, ok := findByTitle(report.Findings, "weak compatibility evidence")
	assert.False(t, ok)
}

func TestAuditRestrictiveLicense(t *testing.T) {
	g := newAuditGraph(t, graph.NewProject("MongoDB", taxonomy.CapabilityDatabase))
	a := New(g, weaver.DefaultConfig().Scoring)
	pattern := patternFor(component("MongoDB", taxonomy.CapabilityDatabase, "SSPL-1.0"))

	report := a.Audit(pattern, map[string]any{weaver.ConstraintCommercialUse: true})
	f, ok := findByTitle(report.Findings, "restrictive license under commercial use")
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Equal(t, CategoryLicensing, f.Category)

	// Without the constraint the same license passes.
	report = a.Audit(pattern, nil)
	_, ok = findByTitle(report.Findings, "restrictive license under commercial use")
	assert.False(t, ok)
}

func TestAuditMixedCopyleft(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("A", taxonomy.CapabilityDatabase),
		graph.NewProject("B", taxonomy.CapabilityCache),
	)
	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("A", taxonomy.CapabilityDatabase, "GPL-3.0"),
		component("B", taxonomy.CapabilityCache, "MPL-2.0"),
	), nil)

	f, ok := findByTitle(report.Findings, "mixed copyleft license families")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, f.Components)
}

func TestAuditLowSecurityScore(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("Sketchy", taxonomy.CapabilityDatabase).WithSecurityScore(0.2),
	)
	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("Sketchy", taxonomy.CapabilityDatabase, "MIT"),
	), nil)

	f, ok := findByTitle(report.Findings, "low security track record")
	require.True(t, ok)
	assert.Equal(t, CategorySecurity, f.Category)
	assert.Contains(t, f.Detail, "0.20")
}

func TestAuditArchitectureAdvisories(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("Django", taxonomy.CapabilityWebFramework),
		graph.NewProject("PostgreSQL", taxonomy.CapabilityDatabase),
	)
	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("Django", taxonomy.CapabilityWebFramework, "BSD-3-Clause"),
		component("PostgreSQL", taxonomy.CapabilityDatabase, "PostgreSQL"),
	), nil)

	_, ok := findByTitle(report.Findings, "no authentication component")
	assert.True(t, ok)
	_, ok = findByTitle(report.Findings, "no cache in front of the database")
	assert.True(t, ok)
	_, ok = findByTitle(report.Findings, "no monitoring component")
	assert.True(t, ok)
}

func TestAuditFindingsOrderedBySeverity(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("A", taxonomy.CapabilityDatabase).WithSecurityScore(0.1),
		graph.NewProject("B", taxonomy.CapabilityCache),
	)
	require.NoError(t, g.AddRelationship(
		graph.NewRelationship("A", "B", taxonomy.RelationConflictsWith)))

	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("A", taxonomy.CapabilityDatabase, "MIT"),
		component("B", taxonomy.CapabilityCache, "MIT"),
	), nil)

	require.NotEmpty(t, report.Findings)
	for i := 1; i < len(report.Findings); i++ {
		assert.GreaterOrEqual(t,
			report.Findings[i-1].Severity.Weight(),
			report.Findings[i].Severity.Weight())
	}
	assert.Equal(t, SeverityCritical, report.Findings[0].Severity)
}

func TestAuditCleanPattern(t *testing.T) {
	g := newAuditGraph(t,
		graph.NewProject("Prometheus", taxonomy.CapabilityMonitoring),
	)
	a := New(g, weaver.DefaultConfig().Scoring)
	report := a.Audit(patternFor(
		component("Prometheus", taxonomy.CapabilityMonitoring, "Apache-2.0"),
	), nil)

	assert.Empty(t, report.Findings)
	assert.Zero(t, report.Risk)
	assert.False(t, report.HasBlocking())
}

func TestSeverityEnum(t *testing.T) {
	for _, s := range AllSeverities() {
		assert.True(t, s.IsValid())
		assert.Positive(t, s.Weight())
	}
	assert.False(t, Severity("fatal").IsValid())
	assert.Zero(t, Severity("fatal").Weight())

	parsed, err := ParseSeverity("high")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, parsed)
	_, err = ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestCategoryEnum(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid())
	}
	parsed, err := ParseCategory("licensing")
	require.NoError(t, err)
	assert.Equal(t, CategoryLicensing, parsed)
	_, err = ParseCategory("vibes")
	assert.Error(t, err)
}
