package crm

import (
	"fmt"
	"sort"

	"donor-reconciler/config"
	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/rs/zerolog"
)

// Registry implements ports.CRMRegistry. Clients are built once at startup
// and shared by every event.
type Registry struct {
	clients      map[domain.Instance]*Client
	forceSandbox bool
}

// NewRegistry builds a client for every configured tenant. With
// ForceSandbox set, every lookup resolves to the sandbox tenant.
func NewRegistry(cfg config.CRMConfig, httpClient restclient.HTTPClient, log zerolog.Logger) *Registry {
	r := &Registry{
		clients:      make(map[domain.Instance]*Client),
		forceSandbox: cfg.ForceSandbox,
	}
	tenants := map[domain.Instance]config.CRMInstanceConfig{
		domain.InstanceUK:      cfg.UK,
		domain.InstanceUS:      cfg.US,
		domain.InstanceROW:     cfg.ROW,
		domain.InstanceSandbox: cfg.Sandbox,
	}
	for instance, tc := range tenants {
		if !tc.Enabled() {
			continue
		}
		r.clients[instance] = NewClient(instance, tc.BaseURL, tc.Tenant, tc.APIKey, httpClient)
	}

	log.Info().
		Strs("instances", r.instanceNames()).
		Bool("force_sandbox", cfg.ForceSandbox).
		Msg("CRM registry initialised")
	return r
}

// Client returns the tenant client for instance.
func (r *Registry) Client(instance domain.Instance) (ports.CRMClient, error) {
	if r.forceSandbox {
		instance = domain.InstanceSandbox
	}
	c, ok := r.clients[instance]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCRMInstance, instance)
	}
	return c, nil
}

// Instances lists the configured tenants.
func (r *Registry) Instances() []domain.Instance {
	out := make([]domain.Instance, 0, len(r.clients))
	for _, name := range r.instanceNames() {
		out = append(out, domain.Instance(name))
	}
	return out
}

func (r *Registry) instanceNames() []string {
	names := make([]string, 0, len(r.clients))
	for instance := range r.clients {
		names = append(names, string(instance))
	}
	sort.Strings(names)
	return names
}
