package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/classify"
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// MeetingMembersUpdatedInput captures a membership change on a meeting.
type MeetingMembersUpdatedInput struct {
	Actor   types.Actor
	Meeting *types.Meeting
	Change  types.MemberChangeInfo
	// Invitation marks changes that came from an invitation flow; those
	// carry a dedicated activity elsewhere and must not double-post.
	Invitation bool
}

// Type implements gocommand.Message.
func (MeetingMembersUpdatedInput) Type() string {
	return "meetings.activity.members_updated"
}

// Validate implements gocommand.Message.
func (input MeetingMembersUpdatedInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.Meeting == nil:
		return ErrMeetingRequired
	default:
		return nil
	}
}

// MeetingMembersUpdatedCommand classifies a membership diff and posts the
// resulting seeds.
type MeetingMembersUpdatedCommand struct {
	bus        types.ActivityBus
	classifier *classify.MemberClassifier
	clock      types.Clock
	gate       featuregate.FeatureGate
	logger     types.Logger
}

// MeetingMembersUpdatedCommandConfig wires dependencies for the handler.
type MeetingMembersUpdatedCommandConfig struct {
	Bus        types.ActivityBus
	Classifier *classify.MemberClassifier
	Clock      types.Clock
	Gate       featuregate.FeatureGate
	Logger     types.Logger
}

// NewMeetingMembersUpdatedCommand constructs the handler.
func NewMeetingMembersUpdatedCommand(cfg MeetingMembersUpdatedCommandConfig) *MeetingMembersUpdatedCommand {
	return &MeetingMembersUpdatedCommand{
		bus:        cfg.Bus,
		classifier: cfg.Classifier,
		clock:      safeClock(cfg.Clock),
		gate:       cfg.Gate,
		logger:     safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[MeetingMembersUpdatedInput] = (*MeetingMembersUpdatedCommand)(nil)

// Execute posts one seed per classification decision, added principals
// first, then role updates, preserving diff order. All seeds of one event
// share a single timestamp. The first bus failure aborts the remainder.
func (c *MeetingMembersUpdatedCommand) Execute(ctx context.Context, input MeetingMembersUpdatedInput) error {
	if c.bus == nil {
		return ErrBusRequired
	}
	if c.classifier == nil {
		return types.NewConfigurationError("members updated handler requires a member classifier")
	}
	if err := input.Validate(); err != nil {
		return err
	}
	enabled, err := activityEnabled(ctx, c.gate)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	decisions, err := c.classifier.Classify(ctx, classify.MemberChangeInput{
		ActorID:    input.Actor.UserID,
		Change:     input.Change,
		Invitation: input.Invitation,
	})
	if err != nil {
		return err
	}

	millis := nowMillis(c.clock)
	actor := actorRef(input.Actor)
	meeting := meetingRef(input.Meeting)

	for _, decision := range decisions {
		var seed types.ActivitySeed
		switch decision.ActivityType {
		case registry.ActivityMeetingAddToLibrary:
			seed = types.NewActivitySeed(decision.ActivityType, millis, decision.Verb, actor, meeting)
		case registry.ActivityMeetingUpdateMemberRole:
			// The changed principal is the object; the meeting is the
			// target so its managers can be routed.
			seed = types.NewTargetedActivitySeed(decision.ActivityType, millis, decision.Verb, actor, *decision.Target, meeting)
		default:
			seed = types.NewTargetedActivitySeed(decision.ActivityType, millis, decision.Verb, actor, meeting, *decision.Target)
		}
		if err := c.bus.PostSeed(ctx, input.Actor, seed); err != nil {
			return err
		}
	}
	return nil
}
