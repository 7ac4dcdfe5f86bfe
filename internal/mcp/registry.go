package mcp

import (
	"context"
	"fmt"
	"sort"

	"sage/internal/agent"
)

// DiscoveryError reports that a server could not be connected or
// listed, or that its tools collide with another server's.
type DiscoveryError struct {
	Server string
	Err    error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover server %s: %v", e.Server, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Server pairs a configured server name with its client.
type Server struct {
	Name   string
	Client *Client
}

// Registry merges the tool catalogs of several servers into one flat
// namespace and routes calls back to the owning server.
type Registry struct {
	servers []Server
	tools   []agent.ToolDescriptor
	owners  map[string]*Client
}

// NewRegistry builds a registry over the given servers. Discovery runs
// in server-name order so failures and catalogs are deterministic.
func NewRegistry(servers []Server) *Registry {
	sorted := make([]Server, len(servers))
	copy(sorted, servers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Registry{servers: sorted, owners: make(map[string]*Client)}
}

// Discover connects every server and merges their tool lists. A tool
// name advertised by two servers is a configuration error.
func (r *Registry) Discover(ctx context.Context) error {
	for _, server := range r.servers {
		if err := server.Client.Connect(ctx); err != nil {
			return &DiscoveryError{Server: server.Name, Err: err}
		}
		descriptors, err := server.Client.ListTools(ctx)
		if err != nil {
			return &DiscoveryError{Server: server.Name, Err: err}
		}
		for _, descriptor := range descriptors {
			if _, taken := r.owners[descriptor.Name]; taken {
				return &DiscoveryError{
					Server: server.Name,
					Err:    fmt.Errorf("tool %q is already provided by another server", descriptor.Name),
				}
			}
			r.owners[descriptor.Name] = server.Client
			r.tools = append(r.tools, descriptor)
		}
	}
	sort.Slice(r.tools, func(i, j int) bool { return r.tools[i].Name < r.tools[j].Name })
	return nil
}

// Tools returns the merged catalog in name order.
func (r *Registry) Tools() []agent.ToolDescriptor {
	out := make([]agent.ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Describe looks a tool up by name.
func (r *Registry) Describe(name string) (agent.ToolDescriptor, bool) {
	for _, tool := range r.tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return agent.ToolDescriptor{}, false
}

func (r *Registry) owner(name string) (*Client, bool) {
	client, ok := r.owners[name]
	return client, ok
}
