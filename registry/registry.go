// Package registry provides service registration and discovery for loom
// reasoner instances.
//
// A deployment can run several reasoners, each serving its own knowledge
// graph. Instances register themselves in etcd on startup, maintain
// presence through lease keepalives, and deregister on graceful shutdown.
// Clients and load balancers use discovery to find live instances and the
// size of the graph each one serves.
package registry

import (
	"context"
	"time"
)

// InstanceInfo describes a registered reasoner instance.
//
// Multiple instances of the same reasoner can run simultaneously, each with
// a unique InstanceID.
type InstanceInfo struct {
	// Name is the reasoner deployment name (e.g., "loom-prod").
	Name string `json:"name"`

	// Version is the semantic version of the running binary.
	Version string `json:"version"`

	// InstanceID uniquely identifies this instance, typically a UUID.
	InstanceID string `json:"instance_id"`

	// Endpoint is the gRPC address where this instance can be reached,
	// formatted "host:port".
	Endpoint string `json:"endpoint"`

	// Projects and Relationships are the size of the knowledge graph this
	// instance serves at registration time.
	Projects      int `json:"projects"`
	Relationships int `json:"relationships"`

	// StartedAt is when this instance started.
	StartedAt time.Time `json:"started_at"`
}

// Registry defines the registration and discovery interface.
//
// Implementations must be safe for concurrent use. Entries are tied to
// etcd leases so crashed instances disappear after the TTL without any
// cleanup call.
type Registry interface {
	// Register adds this instance to the registry. The entry is associated
	// with a lease that a background goroutine renews; registering an
	// already registered InstanceID updates the entry in place.
	Register(ctx context.Context, info InstanceInfo) error

	// Deregister removes this instance. Called during graceful shutdown so
	// the instance drops out of discovery immediately instead of waiting
	// for the lease to expire. Deregistering an unknown instance is a
	// no-op.
	Deregister(ctx context.Context, info InstanceInfo) error

	// Discover returns the live instances of a reasoner deployment, in
	// arbitrary order. The slice may be empty.
	Discover(ctx context.Context, name string) ([]InstanceInfo, error)

	// Watch returns a channel that receives the full instance list for a
	// deployment whenever it changes. The current state is sent
	// immediately; the channel closes when the context is canceled or the
	// registry is closed.
	Watch(ctx context.Context, name string) (<-chan []InstanceInfo, error)

	// Close releases resources and stops all background goroutines. After
	// Close, all other methods return errors.
	Close() error
}

// Config holds registry connection configuration.
type Config struct {
	// Endpoints is the list of etcd endpoints, formatted "host:port".
	Endpoints []string `json:"endpoints"`

	// Namespace is the etcd key prefix for all loom entries. Instances are
	// stored under /{namespace}/reasoners/{name}/{instance-id}.
	// Default: "loom"
	Namespace string `json:"namespace"`

	// TTL is the lease time-to-live in seconds. Instances must renew
	// within this interval or be removed.
	// Default: 30
	TTL int `json:"ttl"`

	// TLS holds optional TLS configuration for secure etcd communication.
	TLS *TLSConfig `json:"tls"`
}

// TLSConfig holds TLS certificate configuration for mutual TLS with etcd.
type TLSConfig struct {
	// Enabled determines whether TLS is active. If false, all other fields
	// are ignored.
	Enabled bool `json:"enabled"`

	// CertFile is the path to the client certificate file (PEM format).
	CertFile string `json:"cert_file"`

	// KeyFile is the path to the client private key file (PEM format).
	KeyFile string `json:"key_file"`

	// CAFile is the path to the certificate authority file (PEM format),
	// used to verify the etcd server's certificate.
	CAFile string `json:"ca_file"`
}
