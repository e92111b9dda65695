package association

import (
	"context"

	"github.com/goliatone/go-meetings/pkg/types"
)

// recentContributorLimit bounds the message-contributors association.
const recentContributorLimit = 100

// RegisterMeetingAssociations wires the built-in associations for meeting,
// message, and principal entities. The membership service backs the foundation
// association members-by-role; members and managers compose from it
// through the memo. Message entities route through their parent meeting,
// so their self association resolves to the parent id.
func RegisterMeetingAssociations(r *Registrar, membership types.MembershipService, contributions types.ContributionTracker) error {
	if membership == nil {
		return types.NewConfigurationError("membership service required")
	}
	if contributions == nil {
		return types.NewConfigurationError("contribution tracker required")
	}

	self := func(_ context.Context, _ Getter, entity types.ActivityEntity) (Value, error) {
		return Value{IDs: []string{entity.EntityID}}, nil
	}

	membersByRole := func(ctx context.Context, _ Getter, entity types.ActivityEntity) (Value, error) {
		byRole, err := membership.MembersByRole(ctx, entity.EntityID)
		if err != nil {
			return Value{}, types.NewServiceError("membership service", err)
		}
		return Value{ByRole: byRole}, nil
	}

	members := func(ctx context.Context, deps Getter, _ types.ActivityEntity) (Value, error) {
		byRole, err := deps.Get(ctx, types.AssociationMembersByRole)
		if err != nil {
			return Value{}, err
		}
		return Value{IDs: byRole.Principals()}, nil
	}

	managers := func(ctx context.Context, deps Getter, _ types.ActivityEntity) (Value, error) {
		byRole, err := deps.Get(ctx, types.AssociationMembersByRole)
		if err != nil {
			return Value{}, err
		}
		return Value{IDs: byRole.ByRole[types.RoleManager]}, nil
	}

	contributors := func(ctx context.Context, _ Getter, entity types.ActivityEntity) (Value, error) {
		ids, err := contributions.RecentContributors(ctx, entity.EntityID, 0, recentContributorLimit)
		if err != nil {
			return Value{}, types.NewServiceError("contribution tracker", err)
		}
		return Value{IDs: ids}, nil
	}

	meeting := map[string]ResolverFunc{
		types.AssociationSelf:                self,
		types.AssociationMembersByRole:       membersByRole,
		types.AssociationMembers:             members,
		types.AssociationManagers:            managers,
		types.AssociationMessageContributors: contributors,
	}
	for name, fn := range meeting {
		if err := r.Register(types.ResourceTypeMeeting, name, fn); err != nil {
			return err
		}
	}

	// Principal entities: a user only resolves to itself, a group also
	// exposes its membership so share targets can fan out.
	if err := r.Register(types.ResourceTypeUser, types.AssociationSelf, self); err != nil {
		return err
	}
	group := map[string]ResolverFunc{
		types.AssociationSelf:          self,
		types.AssociationMembersByRole: membersByRole,
		types.AssociationMembers:       members,
		types.AssociationManagers:      managers,
	}
	for name, fn := range group {
		if err := r.Register(types.ResourceTypeGroup, name, fn); err != nil {
			return err
		}
	}

	// Message entities carry the parent meeting id in their payload; all
	// routing happens through the parent, including self.
	message := map[string]ResolverFunc{
		types.AssociationSelf: func(_ context.Context, _ Getter, entity types.ActivityEntity) (Value, error) {
			parent, _ := entity.Payload[types.InlineKeyMeetingID].(string)
			if parent == "" {
				return Value{}, types.NewConfigurationError("message entity missing parent meeting id")
			}
			return Value{IDs: []string{parent}}, nil
		},
	}
	for name, fn := range message {
		if err := r.Register(types.ResourceTypeMessage, name, fn); err != nil {
			return err
		}
	}
	return nil
}
