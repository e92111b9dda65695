package classify

import (
	"context"
	"strings"

	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// Decision is one activity emission verdict produced by a classifier.
type Decision struct {
	ActivityType string
	Verb         types.Verb
	Target       *types.ResourceRef
}

// MemberChangeInput carries a membership diff for classification.
type MemberChangeInput struct {
	ActorID string
	Change  types.MemberChangeInfo
	// Invitation marks member updates that came from an invitation flow.
	// Those carry their own dedicated activity and must not double-post.
	Invitation bool
}

// MemberClassifierConfig wires the member-change diff engine.
type MemberClassifierConfig struct {
	Membership types.MembershipService
}

// MemberClassifier turns membership diffs into activity decisions.
type MemberClassifier struct {
	membership types.MembershipService
}

// NewMemberClassifier constructs the diff engine.
func NewMemberClassifier(cfg MemberClassifierConfig) (*MemberClassifier, error) {
	if cfg.Membership == nil {
		return nil, types.NewConfigurationError("member classifier requires a membership service")
	}
	return &MemberClassifier{membership: cfg.Membership}, nil
}

// Classify emits one decision per added and per updated principal, in that
// order, preserving input order within each bucket:
//
//   - an added principal that is the actor gets the add-to-library variant,
//     since users cannot share with themselves;
//   - any other added principal gets the share variant targeting it, typed
//     group or user via the membership service;
//   - an updated principal gets the update-member-role variant targeting it.
//
// Removed principals produce no decision. Invitation-flagged changes
// bypass the engine entirely and yield zero decisions.
func (c *MemberClassifier) Classify(ctx context.Context, input MemberChangeInput) ([]Decision, error) {
	if input.Invitation {
		return nil, nil
	}
	if strings.TrimSpace(input.ActorID) == "" {
		return nil, types.ErrActorRequired
	}

	decisions := make([]Decision, 0, len(input.Change.Added)+len(input.Change.Updated))
	for _, added := range input.Change.Added {
		if added.PrincipalID == input.ActorID {
			decisions = append(decisions, Decision{
				ActivityType: registry.ActivityMeetingAddToLibrary,
				Verb:         types.VerbAdd,
			})
			continue
		}
		target, err := c.principalRef(ctx, added.PrincipalID)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, Decision{
			ActivityType: registry.ActivityMeetingShare,
			Verb:         types.VerbShare,
			Target:       target,
		})
	}
	for _, updated := range input.Change.Updated {
		target, err := c.principalRef(ctx, updated.PrincipalID)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, Decision{
			ActivityType: registry.ActivityMeetingUpdateMemberRole,
			Verb:         types.VerbUpdate,
			Target:       target,
		})
	}
	return decisions, nil
}

func (c *MemberClassifier) principalRef(ctx context.Context, principalID string) (*types.ResourceRef, error) {
	isGroup, err := c.membership.IsGroup(ctx, principalID)
	if err != nil {
		return nil, types.NewServiceError("membership service", err)
	}
	resourceType := types.ResourceTypeUser
	if isGroup {
		resourceType = types.ResourceTypeGroup
	}
	ref := types.NewResourceRef(resourceType, principalID)
	return &ref, nil
}
