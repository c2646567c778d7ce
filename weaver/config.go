package weaver

import (
	"fmt"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Config bundles the tunable parameters of enumeration and scoring.
// None of the numeric defaults are load-bearing; they are starting points
// meant to be tuned per deployment via the config package.
type Config struct {
	Scoring     ScoringConfig     `yaml:"scoring"`
	Enumeration EnumerationConfig `yaml:"enumeration"`
}

// ScoringConfig holds the weights and policy knobs consumed by the Scorer.
type ScoringConfig struct {
	// CompatWeight, RobustWeight, and FitWeight blend the three sub-scores
	// into the confidence score. They are renormalized to sum to 1.0 before
	// use; a zero-sum set falls back to the defaults.
	CompatWeight float64 `yaml:"compat_weight"`
	RobustWeight float64 `yaml:"robust_weight"`
	FitWeight    float64 `yaml:"fit_weight"`

	// FitDecay is the fit sub-score awarded to a role filled by a project
	// that only incidentally provides the capability (it is not the
	// project's primary capability). Must be in (0.0, 1.0].
	FitDecay float64 `yaml:"fit_decay"`

	// LicensePenalty multiplies the robustness sub-score when the
	// commercial-use constraint is set and any chosen project carries a
	// restrictive license. Must be in (0.0, 1.0].
	LicensePenalty float64 `yaml:"license_penalty"`

	// RestrictiveLicenses lists license identifier prefixes treated as
	// restrictive for commercial use (copyleft and source-available
	// families).
	RestrictiveLicenses []string `yaml:"restrictive_licenses"`

	// ComponentWeight, LicenseWeight, and OverheadWeight blend the three
	// complexity terms. They are renormalized to sum to 1.0 before use.
	ComponentWeight float64 `yaml:"component_weight"`
	LicenseWeight   float64 `yaml:"license_weight"`
	OverheadWeight  float64 `yaml:"overhead_weight"`

	// MaxComponents is the documented normalization bound for the complexity
	// score: no realistic pattern is assumed to exceed this many components,
	// and each complexity term is divided by it before blending.
	MaxComponents int `yaml:"max_components"`

	// Overhead maps capability kinds to operational overhead weights in
	// [0.0, 1.0]. A message queue costs more to run than a cache. Kinds
	// absent from the map use DefaultOverheadWeight.
	Overhead map[taxonomy.Capability]float64 `yaml:"overhead"`

	// MinConfidence is an optional usability floor: scored patterns below it
	// are dropped from the result. Zero (the default) disables the floor, so
	// all candidates are returned.
	MinConfidence float64 `yaml:"min_confidence"`
}

// EnumerationConfig bounds the combinatorial search.
type EnumerationConfig struct {
	// TopPerCapability caps each per-capability provider list before the
	// Cartesian product is taken, keeping the highest-popularity providers.
	// Projects covering two or more required capabilities are always
	// retained past the cut so single-project reuse candidates survive.
	// This is the system's primary combinatorial control.
	TopPerCapability int `yaml:"top_per_capability"`

	// MaxCandidates is the hard ceiling on generated combinations. If the
	// product across the truncated provider lists would still exceed it,
	// enumeration fails with ErrComplexityLimit instead of truncating
	// silently.
	MaxCandidates int `yaml:"max_candidates"`
}

// DefaultOverheadWeight is the operational overhead assumed for capability
// kinds without an explicit entry in ScoringConfig.Overhead.
const DefaultOverheadWeight = 0.5

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			CompatWeight:   0.50,
			RobustWeight:   0.30,
			FitWeight:      0.20,
			FitDecay:       0.6,
			LicensePenalty: 0.6,
			RestrictiveLicenses: []string{
				"AGPL",
				"SSPL",
				"Elastic",
				"Commons-Clause",
			},
			ComponentWeight: 0.5,
			LicenseWeight:   0.2,
			OverheadWeight:  0.3,
			MaxComponents:   8,
			Overhead:        DefaultOverhead(),
		},
		Enumeration: EnumerationConfig{
			TopPerCapability: 5,
			MaxCandidates:    512,
		},
	}
}

// DefaultOverhead returns the stock per-capability operational overhead
// weights. Heavier infrastructure scores higher.
func DefaultOverhead() map[taxonomy.Capability]float64 {
	return map[taxonomy.Capability]float64{
		taxonomy.CapabilityMessageQueue:   1.0,
		taxonomy.CapabilityStreaming:      1.0,
		taxonomy.CapabilitySearch:         0.9,
		taxonomy.CapabilityAIModel:        0.9,
		taxonomy.CapabilityEventBus:       0.8,
		taxonomy.CapabilityWorkflow:       0.8,
		taxonomy.CapabilityDatabase:       0.7,
		taxonomy.CapabilityVectorDB:       0.7,
		taxonomy.CapabilityAuthentication: 0.6,
		taxonomy.CapabilityAuthorization:  0.6,
		taxonomy.CapabilityObjectStorage:  0.5,
		taxonomy.CapabilityStorage:        0.5,
		taxonomy.CapabilityMonitoring:     0.5,
		taxonomy.CapabilityLoadBalancer:   0.4,
		taxonomy.CapabilityReverseProxy:   0.4,
		taxonomy.CapabilityWebFramework:   0.4,
		taxonomy.CapabilityCache:          0.3,
		taxonomy.CapabilityEmail:          0.3,
		taxonomy.CapabilityCDN:            0.3,
	}
}

// Validate checks configuration bounds. It does not mutate the config;
// weight renormalization happens at scoring time.
func (c Config) Validate() error {
	s := c.Scoring
	if s.CompatWeight < 0 || s.RobustWeight < 0 || s.FitWeight < 0 {
		return fmt.Errorf("confidence weights must be non-negative")
	}
	if s.FitDecay <= 0 || s.FitDecay > 1 {
		return fmt.Errorf("fit_decay %.2f outside (0.0, 1.0]", s.FitDecay)
	}
	if s.LicensePenalty <= 0 || s.LicensePenalty > 1 {
		return fmt.Errorf("license_penalty %.2f outside (0.0, 1.0]", s.LicensePenalty)
	}
	if s.ComponentWeight < 0 || s.LicenseWeight < 0 || s.OverheadWeight < 0 {
		return fmt.Errorf("complexity weights must be non-negative")
	}
	if s.MaxComponents <= 0 {
		return fmt.Errorf("max_components must be positive, got %d", s.MaxComponents)
	}
	for kind, w := range s.Overhead {
		if !kind.IsValid() {
			return fmt.Errorf("overhead entry for unknown capability kind %q", kind)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("overhead weight %.2f for %s outside [0.0, 1.0]", w, kind)
		}
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %.2f outside [0.0, 1.0]", s.MinConfidence)
	}

	e := c.Enumeration
	if e.TopPerCapability <= 0 {
		return fmt.Errorf("top_per_capability must be positive, got %d", e.TopPerCapability)
	}
	if e.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive, got %d", e.MaxCandidates)
	}
	return nil
}

// overheadFor looks up the overhead weight for a capability kind.
func (s ScoringConfig) overheadFor(kind taxonomy.Capability) float64 {
	if w, ok := s.Overhead[kind]; ok {
		return w
	}
	return DefaultOverheadWeight
}
