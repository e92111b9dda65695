// Package config resolves tenant-scoped meeting defaults. Values merge
// through go-options scope layers so a per-tenant override always beats
// the shipped system default.
package config

import (
	"context"
	"strings"

	"github.com/goliatone/go-meetings/pkg/types"
	opts "github.com/goliatone/go-options"
)

// Setting keys resolvable per tenant.
const (
	KeyDefaultVisibility = "visibility"
)

// TenantOverrideSource supplies per-tenant configuration overrides. A nil
// source or empty map means the tenant runs on system defaults.
type TenantOverrideSource interface {
	TenantOverrides(ctx context.Context, tenantAlias string) (map[string]any, error)
}

// TenantOverrideFunc adapts a function into a TenantOverrideSource.
type TenantOverrideFunc func(ctx context.Context, tenantAlias string) (map[string]any, error)

// TenantOverrides implements TenantOverrideSource.
func (f TenantOverrideFunc) TenantOverrides(ctx context.Context, tenantAlias string) (map[string]any, error) {
	return f(ctx, tenantAlias)
}

// ResolverConfig wires the defaults resolver.
type ResolverConfig struct {
	Overrides TenantOverrideSource
	Defaults  map[string]any
}

// Resolver merges system defaults with tenant overrides.
type Resolver struct {
	overrides TenantOverrideSource
	defaults  map[string]any
}

// NewResolver constructs a resolver. Missing defaults fall back to the
// shipped system values.
func NewResolver(cfg ResolverConfig) *Resolver {
	defaults := cloneMap(systemDefaults())
	for k, v := range cfg.Defaults {
		defaults[k] = v
	}
	return &Resolver{overrides: cfg.Overrides, defaults: defaults}
}

// Resolve returns the effective settings for the tenant.
func (r *Resolver) Resolve(ctx context.Context, tenantAlias string) (map[string]any, error) {
	layers := []opts.Layer[map[string]any]{
		newLayer("system", opts.ScopePrioritySystem, "System Defaults", cloneMap(r.defaults)),
	}

	if r.overrides != nil && strings.TrimSpace(tenantAlias) != "" {
		overrides, err := r.overrides.TenantOverrides(ctx, tenantAlias)
		if err != nil {
			return nil, types.NewServiceError("tenant override source", err)
		}
		if len(overrides) > 0 {
			layers = append(layers,
				newLayer("tenant", opts.ScopePriorityTenant, "Tenant", cloneMap(overrides)))
		}
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return nil, types.NewConfigurationError("building tenant settings stack: " + err.Error())
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, types.NewConfigurationError("merging tenant settings: " + err.Error())
	}
	return cloneMap(merged.Value), nil
}

// DefaultVisibility returns the visibility applied to meetings created
// without an explicit setting.
func (r *Resolver) DefaultVisibility(ctx context.Context, tenantAlias string) (types.Visibility, error) {
	settings, err := r.Resolve(ctx, tenantAlias)
	if err != nil {
		return "", err
	}
	raw, _ := settings[KeyDefaultVisibility].(string)
	visibility := types.Visibility(raw)
	if !types.ValidVisibility(visibility) {
		return "", types.NewConfigurationError("invalid default visibility for tenant " + tenantAlias + ": " + raw)
	}
	return visibility, nil
}

func systemDefaults() map[string]any {
	return map[string]any{
		KeyDefaultVisibility: string(types.VisibilityPublic),
	}
}

func newLayer(name string, priority int, label string, payload map[string]any) opts.Layer[map[string]any] {
	scope := opts.NewScope(name, priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(map[string]any{"scope": name}))
	return opts.NewLayer(scope, payload, opts.WithSnapshotID[map[string]any](scope.Name))
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
