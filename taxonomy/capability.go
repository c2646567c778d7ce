package taxonomy

import (
	"fmt"
	"strings"
)

// Capability identifies a functional role an OSS project can fulfill in an
// architecture, such as serving HTTP or storing relational data.
type Capability string

const (
	// Web and API
	CapabilityWebFramework Capability = "web-framework"
	CapabilityAPIGateway   Capability = "api-gateway"
	CapabilityGraphQL      Capability = "graphql"

	// Data storage
	CapabilityDatabase      Capability = "database"
	CapabilityCache         Capability = "cache"
	CapabilityStorage       Capability = "storage"
	CapabilityObjectStorage Capability = "object-storage"
	CapabilitySearch        Capability = "search"
	CapabilityVectorDB      Capability = "vector-db"

	// Messaging and streaming
	CapabilityMessageQueue Capability = "message-queue"
	CapabilityStreaming    Capability = "streaming"
	CapabilityEventBus     Capability = "event-bus"

	// Security and identity
	CapabilityAuthentication Capability = "authentication"
	CapabilityAuthorization  Capability = "authorization"
	CapabilitySecrets        Capability = "secrets"

	// Observability
	CapabilityMonitoring Capability = "monitoring"
	CapabilityLogging    Capability = "logging"
	CapabilityTracing    Capability = "tracing"

	// AI/ML
	CapabilityAIModel Capability = "ai-model"

	// Delivery and integration
	CapabilityLoadBalancer Capability = "load-balancer"
	CapabilityReverseProxy Capability = "reverse-proxy"
	CapabilityCDN          Capability = "cdn"
	CapabilityEmail        Capability = "email"
	CapabilityNotification Capability = "notification"
	CapabilityPayment      Capability = "payment"
	CapabilityWorkflow     Capability = "workflow"
)

// allCapabilities lists every valid capability in declaration order.
// Parse, IsValid, and AllCapabilities derive from this single list.
var allCapabilities = []Capability{
	CapabilityWebFramework,
	CapabilityAPIGateway,
	CapabilityGraphQL,
	CapabilityDatabase,
	CapabilityCache,
	CapabilityStorage,
	CapabilityObjectStorage,
	CapabilitySearch,
	CapabilityVectorDB,
	CapabilityMessageQueue,
	CapabilityStreaming,
	CapabilityEventBus,
	CapabilityAuthentication,
	CapabilityAuthorization,
	CapabilitySecrets,
	CapabilityMonitoring,
	CapabilityLogging,
	CapabilityTracing,
	CapabilityAIModel,
	CapabilityLoadBalancer,
	CapabilityReverseProxy,
	CapabilityCDN,
	CapabilityEmail,
	CapabilityNotification,
	CapabilityPayment,
	CapabilityWorkflow,
}

var capabilitySet = func() map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(allCapabilities))
	for _, c := range allCapabilities {
		set[c] = struct{}{}
	}
	return set
}()

// IsValid returns true if the capability is part of the closed enumeration.
func (c Capability) IsValid() bool {
	_, ok := capabilitySet[c]
	return ok
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability parses a string into a Capability value. Lookup is
// case-insensitive and accepts underscores in place of hyphens so datasets
// produced with either convention load cleanly.
// Returns an error if the string names no known capability.
func ParseCapability(s string) (Capability, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	c := Capability(normalized)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown capability kind: %q", s)
	}
	return c, nil
}

// AllCapabilities returns every valid capability kind in declaration order.
// The returned slice is a copy and safe to modify.
func AllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities)
	return out
}
