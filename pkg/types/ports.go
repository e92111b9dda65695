package types

import "context"

// ResourceDirectory fetches canonical meeting and message records by id.
// The directory package ships a bun-backed default; hosts may supply their
// own implementation.
type ResourceDirectory interface {
	GetMeeting(ctx context.Context, id string) (*Meeting, error)
	GetMessage(ctx context.Context, id string) (*Message, error)
}

// MembershipService resolves the member list of a resource and classifies
// principals. Membership is owned by the host's authz layer; the engine
// only reads it.
type MembershipService interface {
	// MembersByRole returns every member of the resource bucketed by the
	// role it holds.
	MembersByRole(ctx context.Context, resourceID string) (map[string][]string, error)
	// IsGroup reports whether the principal id names a group.
	IsGroup(ctx context.Context, principalID string) (bool, error)
}

// ContributionTracker surfaces the principals who recently posted messages
// on a resource.
type ContributionTracker interface {
	// RecentContributors returns up to limit distinct contributor ids for
	// the resource, most recent first. A zero before means "now".
	RecentContributors(ctx context.Context, resourceID string, before int64, limit int) ([]string, error)
}

// ActivityBus accepts activity seeds for aggregation, persistence, and
// per-channel delivery. The bus owns retries and fan-out; the engine only
// posts seeds and surfaces errors.
type ActivityBus interface {
	PostSeed(ctx context.Context, actor Actor, seed ActivitySeed) error
}

// TenantURLResolver produces the externally reachable base URL for a
// tenant. Used only by the public transformer.
type TenantURLResolver interface {
	BaseURL(tenant Tenant) string
}
