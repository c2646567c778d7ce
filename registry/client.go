package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// reasonersSegment is the key segment under which instances live:
// /{namespace}/reasoners/{name}/{instance-id}
const reasonersSegment = "reasoners"

// Client implements Registry backed by an etcd cluster.
//
// Lease management is automatic: each registered instance gets a lease with
// the configured TTL, renewed every TTL/3 by a background goroutine.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string
	ttl       int

	mu         sync.RWMutex
	leases     map[string]clientv3.LeaseID // key: instance ID
	cancelFns  map[string]context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient creates a registry client from the provided configuration.
//
// The connection is verified with a quick read before the client is
// returned. Close must be called to release resources and stop the
// keepalive goroutines.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("registry endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "loom"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: 5 * time.Second,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := clientTLS(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		ttl:        ttl,
		leases:     make(map[string]clientv3.LeaseID),
		cancelFns:  make(map[string]context.CancelFunc),
		closedChan: make(chan struct{}),
	}, nil
}

// NewClientFromEnv creates a registry client from the
// LOOM_REGISTRY_ENDPOINTS environment variable, a comma-separated list of
// etcd endpoints.
//
// If the variable is unset, (nil, nil) is returned: the reasoner runs fine
// without being discoverable, so a missing registry is not an error.
func NewClientFromEnv() (*Client, error) {
	endpoints := os.Getenv("LOOM_REGISTRY_ENDPOINTS")
	if endpoints == "" {
		return nil, nil
	}

	endpointList := strings.Split(endpoints, ",")
	for i, ep := range endpointList {
		endpointList[i] = strings.TrimSpace(ep)
	}

	return NewClient(Config{
		Endpoints: endpointList,
		Namespace: "loom",
		TTL:       30,
	})
}

// Register adds this instance to the registry.
//
// The instance is discoverable immediately and stays registered while the
// lease is renewed. Re-registering the same InstanceID updates the entry
// and restarts its keepalive goroutine, so a reasoner can refresh its graph
// statistics by registering again.
func (c *Client) Register(ctx context.Context, info InstanceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	if cancelFn, exists := c.cancelFns[info.InstanceID]; exists {
		cancelFn()
		delete(c.cancelFns, info.InstanceID)
	}

	leaseResp, err := c.client.Grant(ctx, int64(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal instance info: %w", err)
	}

	key := c.buildKey(info.Name, info.InstanceID)
	_, err = c.client.Put(ctx, key, string(data), clientv3.WithLease(leaseResp.ID))
	if err != nil {
		return fmt.Errorf("failed to register instance: %w", err)
	}

	c.leases[info.InstanceID] = leaseResp.ID

	keepaliveCtx, cancel := context.WithCancel(context.Background())
	c.cancelFns[info.InstanceID] = cancel

	c.wg.Add(1)
	go c.keepalive(keepaliveCtx, leaseResp.ID, info.InstanceID)

	return nil
}

// Deregister removes this instance by revoking its lease. Unknown
// instances are a no-op.
func (c *Client) Deregister(ctx context.Context, info InstanceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	if cancelFn, exists := c.cancelFns[info.InstanceID]; exists {
		cancelFn()
		delete(c.cancelFns, info.InstanceID)
	}

	leaseID, exists := c.leases[info.InstanceID]
	if !exists {
		return nil
	}

	_, err := c.client.Revoke(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}

	delete(c.leases, info.InstanceID)
	return nil
}

// Discover returns the live instances of a reasoner deployment.
func (c *Client) Discover(ctx context.Context, name string) ([]InstanceInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}

	prefix := fmt.Sprintf("/%s/%s/%s/", c.namespace, reasonersSegment, name)
	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover instances: %w", err)
	}

	instances := make([]InstanceInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info InstanceInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			// Skip invalid entries
			continue
		}
		instances = append(instances, info)
	}
	return instances, nil
}

// Watch returns a channel that receives the instance list for a deployment
// whenever it changes. The current state is sent immediately.
func (c *Client) Watch(ctx context.Context, name string) (<-chan []InstanceInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}

	ch := make(chan []InstanceInfo, 1)

	instances, err := c.Discover(ctx, name)
	if err != nil {
		return nil, err
	}
	ch <- instances

	prefix := fmt.Sprintf("/%s/%s/%s/", c.namespace, reasonersSegment, name)
	watchChan := c.client.Watch(ctx, prefix, clientv3.WithPrefix())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				instances, err := c.Discover(context.Background(), name)
				if err != nil {
					// Skip this update if we can't query
					continue
				}

				select {
				case ch <- instances:
				case <-ctx.Done():
					return
				case <-c.closedChan:
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close releases all resources and stops background goroutines.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for _, cancel := range c.cancelFns {
		cancel()
	}
	c.cancelFns = make(map[string]context.CancelFunc)

	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()
	return c.client.Close()
}

// keepalive renews the lease every TTL/3 seconds. It stops when the context
// is canceled, the registry is closed, or the lease becomes invalid.
func (c *Client) keepalive(ctx context.Context, leaseID clientv3.LeaseID, instanceID string) {
	defer c.wg.Done()

	interval := time.Duration(c.ttl) * time.Second / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closedChan:
			return
		case <-ticker.C:
			_, err := c.client.KeepAliveOnce(context.Background(), leaseID)
			if err != nil {
				c.mu.Lock()
				delete(c.leases, instanceID)
				delete(c.cancelFns, instanceID)
				c.mu.Unlock()
				return
			}
		}
	}
}

func (c *Client) buildKey(name, instanceID string) string {
	return fmt.Sprintf("/%s/%s/%s/%s", c.namespace, reasonersSegment, name, instanceID)
}
