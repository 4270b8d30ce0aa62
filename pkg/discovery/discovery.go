// Package discovery registers the storefront instance in etcd so
// deployment tooling can see live instances. The server runs fine
// without etcd; callers treat a failed connection as a warning.
package discovery

import (
	"context"
	"fmt"

	"github.com/example/bakeshop/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const leaseTTLSeconds = 30

type Registry struct {
	client *clientv3.Client
	config *config.EtcdConfig
}

type Instance struct {
	Name string
	Host string
	Port int
}

func NewRegistry(cfg *config.EtcdConfig) (*Registry, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &Registry{client: cli, config: cfg}, nil
}

func (r *Registry) key(inst *Instance) string {
	return fmt.Sprintf("%s%s/%s:%d", r.config.Prefix, inst.Name, inst.Host, inst.Port)
}

// Register writes the instance under a leased key and keeps the lease
// alive for the life of ctx.
func (r *Registry) Register(ctx context.Context, inst *Instance) error {
	lease, err := r.client.Grant(ctx, leaseTTLSeconds)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	value := fmt.Sprintf("%s:%d", inst.Host, inst.Port)
	if _, err := r.client.Put(ctx, r.key(inst), value, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register instance: %w", err)
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep lease alive: %w", err)
	}

	go func() {
		for range ch {
		}
	}()

	return nil
}

func (r *Registry) Deregister(ctx context.Context, inst *Instance) error {
	if _, err := r.client.Delete(ctx, r.key(inst)); err != nil {
		return fmt.Errorf("failed to deregister instance: %w", err)
	}
	return nil
}

func (r *Registry) Close() error {
	return r.client.Close()
}
