package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/classify"
	"github.com/goliatone/go-meetings/pkg/types"
)

// MeetingUpdatedInput captures a metadata update, carrying both the
// pre-update snapshot and the updated record so the classifier can diff
// them.
type MeetingUpdatedInput struct {
	Actor    types.Actor
	Previous *types.Meeting
	Updated  *types.Meeting
}

// Type implements gocommand.Message.
func (MeetingUpdatedInput) Type() string {
	return "meetings.activity.updated"
}

// Validate implements gocommand.Message.
func (input MeetingUpdatedInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.Updated == nil:
		return ErrMeetingRequired
	case input.Previous == nil:
		return ErrPreviousMeetingRequired
	default:
		return nil
	}
}

// MeetingUpdatedCommand posts the activity for a metadata update: either
// the generic update type or the visibility-change type, never both.
type MeetingUpdatedCommand struct {
	bus    types.ActivityBus
	clock  types.Clock
	gate   featuregate.FeatureGate
	logger types.Logger
}

// MeetingUpdatedCommandConfig wires dependencies for the handler.
type MeetingUpdatedCommandConfig struct {
	Bus    types.ActivityBus
	Clock  types.Clock
	Gate   featuregate.FeatureGate
	Logger types.Logger
}

// NewMeetingUpdatedCommand constructs the handler.
func NewMeetingUpdatedCommand(cfg MeetingUpdatedCommandConfig) *MeetingUpdatedCommand {
	return &MeetingUpdatedCommand{
		bus:    cfg.Bus,
		clock:  safeClock(cfg.Clock),
		gate:   cfg.Gate,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[MeetingUpdatedInput] = (*MeetingUpdatedCommand)(nil)

// Execute classifies the metadata change and posts exactly one seed.
func (c *MeetingUpdatedCommand) Execute(ctx context.Context, input MeetingUpdatedInput) error {
	if c.bus == nil {
		return ErrBusRequired
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

	activityType, verb := classify.Metadata(*input.Previous, *input.Updated)
	seed := types.NewActivitySeed(
		activityType,
		nowMillis(c.clock),
		verb,
		actorRef(input.Actor),
		meetingRef(input.Updated),
	)
	return c.bus.PostSeed(ctx, input.Actor, seed)
}
