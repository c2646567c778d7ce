package auditor

import "fmt"

// Severity represents the severity level of an audit finding.
type Severity string

const (
	// SeverityCritical indicates a flaw that makes a pattern unfit to ship.
	// Examples: components with a conflicts-with relationship in the graph
	SeverityCritical Severity = "critical"

	// SeverityHigh indicates a serious risk that needs resolution.
	// Examples: restrictive licenses under a commercial-use constraint
	SeverityHigh Severity = "high"

	// SeverityMedium indicates a weakness worth addressing before production.
	// Examples: low-trust component, weak compatibility evidence
	SeverityMedium Severity = "medium"

	// SeverityLow indicates a minor concern.
	// Examples: duplicated capability coverage, missing cache in front of a database
	SeverityLow Severity = "low"

	// SeverityInfo indicates an advisory observation without direct risk.
	// Examples: recommendations to add monitoring
	SeverityInfo Severity = "info"
)

// severityWeights maps severity levels to numeric weights for risk scoring.
// Higher weights indicate more severe findings.
var severityWeights = map[Severity]float64{
	SeverityCritical: 10.0,
	SeverityHigh:     7.5,
	SeverityMedium:   5.0,
	SeverityLow:      2.5,
	SeverityInfo:     1.0,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight associated with the severity level.
// Returns 0.0 for invalid severity levels.
func (s Severity) Weight() float64 {
	if weight, ok := severityWeights[s]; ok {
		return weight
	}
	return 0.0
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// AllSeverities returns all valid severity levels in order from critical to info.
func AllSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
		SeverityInfo,
	}
}
