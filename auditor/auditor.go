// Package auditor inspects assembled patterns for compatibility, licensing,
// security, and architectural weaknesses that scoring alone does not
// surface. An audit never rejects a pattern; it reports findings with
// severities so callers can decide.
package auditor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
	"github.com/MartiniMaung/loom/weaver"
)

// Finding is a single audit observation about a pattern.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`

	// Components names the projects the finding concerns, sorted.
	Components []string `json:"components,omitempty"`
}

// Report is the result of auditing one pattern.
type Report struct {
	Findings []Finding `json:"findings"`

	// Risk is the weight-sum of the findings normalized to [0.0, 1.0].
	// A clean pattern scores 0.0.
	Risk float64 `json:"risk"`
}

// HasBlocking reports whether the audit produced any critical finding.
func (r Report) HasBlocking() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Auditor checks patterns against the knowledge graph they were woven from.
type Auditor struct {
	graph *graph.Graph
	cfg   weaver.ScoringConfig
}

// New returns an Auditor reading relationship evidence from g. The scoring
// configuration supplies the restrictive-license list so audit and scoring
// agree on licensing policy.
func New(g *graph.Graph, cfg weaver.ScoringConfig) *Auditor {
	return &Auditor{graph: g, cfg: cfg}
}

// weakStrengthFloor is the compatibility strength below which a known
// relationship is flagged as weak evidence.
const weakStrengthFloor = 0.3

// lowSecurityFloor is the security score below which a component is flagged.
const lowSecurityFloor = 0.4

// Audit inspects a pattern and returns every finding, ordered by severity
// (critical first) and then by title for stable output. The constraints map
// is the intent's constraint set; the commercial-use flag activates the
// licensing checks.
func (a *Auditor) Audit(pattern weaver.Pattern, constraints map[string]any) Report {
	var findings []Finding

	components := distinctComponents(pattern)
	findings = append(findings, a.checkConflicts(components)...)
	findings = append(findings, a.checkWeakPairs(components)...)
	findings = append(findings, a.checkLicensing(components, constraints)...)
	findings = append(findings, a.checkSecurity(components)...)
	findings = append(findings, a.checkArchitecture(pattern, components)...)

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity.Weight() != findings[j].Severity.Weight() {
			return findings[i].Severity.Weight() > findings[j].Severity.Weight()
		}
		return findings[i].Title < findings[j].Title
	})

	return Report{Findings: findings, Risk: riskScore(findings)}
}

// riskScore normalizes the weight-sum against one critical finding per
// component pair, saturating at 1.0.
func riskScore(findings []Finding) float64 {
	if len(findings) == 0 {
		return 0.0
	}
	var sum float64
	for _, f := range findings {
		sum += f.Severity.Weight()
	}
	risk := sum / (sum + SeverityCritical.Weight())
	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

func (a *Auditor) checkConflicts(components []weaver.Component) []Finding {
	var findings []Finding
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			first, second := components[i].Name, components[j].Name
			rel, ok := a.graph.Relationship(first, second, taxonomy.RelationConflictsWith)
			if !ok {
				rel, ok = a.graph.Relationship(second, first, taxonomy.RelationConflictsWith)
			}
			if !ok {
				continue
			}
			detail := fmt.Sprintf("%s and %s are recorded as conflicting", first, second)
			if rel.Evidence != "" {
				detail += ": " + rel.Evidence
			}
			findings = append(findings, Finding{
				Severity:   SeverityCritical,
				Category:   CategoryCompatibility,
				Title:      "conflicting components",
				Detail:     detail,
				Components: sortedPair(first, second),
			})
		}
	}
	return findings
}

func (a *Auditor) checkWeakPairs(components []weaver.Component) []Finding {
	var findings []Finding
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			first, second := components[i].Name, components[j].Name
			strength := a.graph.RelationshipStrength(first, second)
			if strength <= 0 || strength >= weakStrengthFloor {
				continue
			}
			findings = append(findings, Finding{
				Severity: SeverityMedium,
				Category: CategoryCompatibility,
				Title:    "weak compatibility evidence",
				Detail: fmt.Sprintf("%s and %s have a compatibility strength of %.2f",
					first, second, strength),
				Components: sortedPair(first, second),
			})
		}
	}
	return findings
}

func (a *Auditor) checkLicensing(components []weaver.Component, constraints map[string]any) []Finding {
	var findings []Finding

	if commercial, _ := constraints[weaver.ConstraintCommercialUse].(bool); commercial {
		for _, c := range components {
			if !a.restrictive(c.License) {
				continue
			}
			findings = append(findings, Finding{
				Severity: SeverityHigh,
				Category: CategoryLicensing,
				Title:    "restrictive license under commercial use",
				Detail: fmt.Sprintf("%s is licensed under %s, which restricts commercial redistribution",
					c.Name, c.License),
				Components: []string{c.Name},
			})
		}
	}

	families := make(map[string][]string)
	for _, c := range components {
		if family := copyleftFamily(c.License); family != "" {
			families[family] = append(families[family], c.Name)
		}
	}
	if len(families) > 1 {
		var names []string
		for _, members := range families {
			names = append(names, members...)
		}
		sort.Strings(names)
		findings = append(findings, Finding{
			Severity:   SeverityMedium,
			Category:   CategoryLicensing,
			Title:      "mixed copyleft license families",
			Detail:     "the pattern combines components from different copyleft license families, which complicates distribution",
			Components: names,
		})
	}

	return findings
}

func (a *Auditor) checkSecurity(components []weaver.Component) []Finding {
	var findings []Finding
	for _, c := range components {
		project, ok := a.graph.Project(c.Name)
		if !ok || project.SecurityScore >= lowSecurityFloor {
			continue
		}
		findings = append(findings, Finding{
			Severity: SeverityMedium,
			Category: CategorySecurity,
			Title:    "low security track record",
			Detail: fmt.Sprintf("%s has a security score of %.2f",
				c.Name, project.SecurityScore),
			Components: []string{c.Name},
		})
	}
	return findings
}

func (a *Auditor) checkArchitecture(pattern weaver.Pattern, components []weaver.Component) []Finding {
	var findings []Finding

	covered := make(map[taxonomy.Capability][]string)
	for _, c := range pattern.Components {
		covered[c.Capability] = append(covered[c.Capability], c.Name)
	}

	for kind, names := range covered {
		distinct := uniqueSorted(names)
		if len(distinct) < 2 {
			continue
		}
		findings = append(findings, Finding{
			Severity: SeverityLow,
			Category: CategoryArchitecture,
			Title:    "duplicated capability coverage",
			Detail: fmt.Sprintf("capability %s is filled by %d different components",
				kind, len(distinct)),
			Components: distinct,
		})
	}

	has := func(kind taxonomy.Capability) bool {
		for _, c := range components {
			for _, provided := range c.Capabilities {
				if provided == kind {
					return true
				}
			}
		}
		return false
	}

	if has(taxonomy.CapabilityWebFramework) && !has(taxonomy.CapabilityAuthentication) {
		findings = append(findings, Finding{
			Severity: SeverityLow,
			Category: CategorySecurity,
			Title:    "no authentication component",
			Detail:   "the pattern serves a web application without an authentication component",
		})
	}
	if has(taxonomy.CapabilityDatabase) && !has(taxonomy.CapabilityCache) {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Category: CategoryArchitecture,
			Title:    "no cache in front of the database",
			Detail:   "consider a cache layer to reduce read load on the database",
		})
	}
	if !has(taxonomy.CapabilityMonitoring) {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Category: CategoryArchitecture,
			Title:    "no monitoring component",
			Detail:   "the pattern has no monitoring coverage",
		})
	}

	return findings
}

func (a *Auditor) restrictive(license string) bool {
	for _, prefix := range a.cfg.RestrictiveLicenses {
		if prefix != "" && strings.HasPrefix(license, prefix) {
			return true
		}
	}
	return false
}

// copyleftFamily maps a license identifier to its copyleft family, or ""
// for permissive and unknown licenses.
func copyleftFamily(license string) string {
	switch {
	case strings.HasPrefix(license, "AGPL"):
		return "AGPL"
	case strings.HasPrefix(license, "GPL"):
		return "GPL"
	case strings.HasPrefix(license, "LGPL"):
		return "LGPL"
	case strings.HasPrefix(license, "MPL"):
		return "MPL"
	case strings.HasPrefix(license, "EPL"):
		return "EPL"
	default:
		return ""
	}
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

func sortedPair(a, b string) []string {
	if a > b {
		a, b = b, a
	}
	return []string{a, b}
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
