package association

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-meetings/pkg/types"
)

// Value is the result of resolving one association: either a flat principal
// id list or, for the foundation association, a role-bucketed map.
type Value struct {
	IDs    []string
	ByRole map[string][]string
}

// Principals flattens the value into a single id list. Role buckets are
// visited in sorted role order so the output is deterministic; the role
// information is lost.
func (v Value) Principals() []string {
	if len(v.ByRole) == 0 {
		return v.IDs
	}
	roles := make([]string, 0, len(v.ByRole))
	for role := range v.ByRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	var out []string
	out = append(out, v.IDs...)
	for _, role := range roles {
		out = append(out, v.ByRole[role]...)
	}
	return out
}

// Getter resolves a named association within the current pass. The Getter
// handed to a ResolverFunc carries the dependency chain used for cycle
// detection, so resolvers must use it (not the Context directly) to reach
// the associations they compose from.
type Getter interface {
	Get(ctx context.Context, name string) (Value, error)
}

// ResolverFunc resolves one association for one entity.
type ResolverFunc func(ctx context.Context, deps Getter, entity types.ActivityEntity) (Value, error)

// Registrar indexes association resolvers by entity type and name. Register
// everything during process initialization; the registrar is read-only
// afterwards.
type Registrar struct {
	resolvers map[string]map[string]ResolverFunc
}

// NewRegistrar returns an empty registrar.
func NewRegistrar() *Registrar {
	return &Registrar{resolvers: make(map[string]map[string]ResolverFunc)}
}

// Register adds a resolver for (entityType, name). Duplicate registration
// is a configuration error.
func (r *Registrar) Register(entityType, name string, fn ResolverFunc) error {
	entityType = strings.TrimSpace(entityType)
	name = strings.TrimSpace(name)
	if entityType == "" || name == "" {
		return types.NewConfigurationError("association entity type and name required")
	}
	if fn == nil {
		return types.NewConfigurationError("association resolver required: " + entityType + "/" + name)
	}
	byName := r.resolvers[entityType]
	if byName == nil {
		byName = make(map[string]ResolverFunc)
		r.resolvers[entityType] = byName
	}
	if _, exists := byName[name]; exists {
		return types.NewConfigurationError("association already registered: " + entityType + "/" + name)
	}
	byName[name] = fn
	return nil
}

// Has reports whether a resolver exists for (entityType, name).
func (r *Registrar) Has(entityType, name string) bool {
	_, ok := r.resolvers[entityType][name]
	return ok
}

// Known reports whether any entity type registers the named association.
// Registry validation uses it: routing names entities by role, not by
// type, so a name counts as known when at least one type can resolve it.
func (r *Registrar) Known(name string) bool {
	for _, byName := range r.resolvers {
		if _, ok := byName[name]; ok {
			return true
		}
	}
	return false
}

func (r *Registrar) resolver(entityType, name string) (ResolverFunc, bool) {
	fn, ok := r.resolvers[entityType][name]
	return fn, ok
}
