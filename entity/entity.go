package entity

import (
	"context"

	"github.com/goliatone/go-meetings/pkg/types"
)

// Type is the capability interface every entity kind implements.
type Type interface {
	// Kind returns the entity type name the implementation owns.
	Kind() string
	// Produce builds the persistent activity entity for the ref. Inline
	// data wins; the directory fetch is the fallback. Implementations
	// never return a partially populated entity.
	Produce(ctx context.Context, ref types.ResourceRef) (types.ActivityEntity, error)
	// TransformPublic converts persistent entities into display-ready
	// representations for the actor's tenant. Pure function of
	// (actor tenant, entity); no side effects.
	TransformPublic(ctx context.Context, actor types.Actor, entities []types.ActivityEntity) ([]types.DisplayEntity, error)
	// TransformInternal strips entities down to the original domain
	// payload for same-process consumers. Routing and propagation
	// internals never leak through it.
	TransformInternal(ctx context.Context, entities []types.ActivityEntity) ([]map[string]any, error)
	// Propagation declares how far the entity may travel, derived from
	// its visibility. The external gate applies the rules.
	Propagation(entity types.ActivityEntity) []PropagationRule
}

// PropagationRuleType classifies how far an entity may propagate.
type PropagationRuleType string

const (
	// PropagationAll delivers to any resolved recipient.
	PropagationAll PropagationRuleType = "all"
	// PropagationTenant restricts delivery to recipients of the entity's
	// tenant.
	PropagationTenant PropagationRuleType = "tenant"
	// PropagationRoutes restricts delivery to the explicitly routed
	// recipient set.
	PropagationRoutes PropagationRuleType = "routes"
)

// PropagationRule is one declarative propagation decision consumed by the
// external visibility gate.
type PropagationRule struct {
	Type        PropagationRuleType
	TenantAlias string
}

// StandardPropagation derives the propagation rules every non-joinable
// resource uses from its visibility.
func StandardPropagation(visibility types.Visibility, tenantAlias string) []PropagationRule {
	switch visibility {
	case types.VisibilityPublic:
		return []PropagationRule{{Type: PropagationAll}}
	case types.VisibilityLoggedIn:
		return []PropagationRule{{Type: PropagationTenant, TenantAlias: tenantAlias}}
	default:
		return []PropagationRule{{Type: PropagationRoutes}}
	}
}
