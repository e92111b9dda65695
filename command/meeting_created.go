package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// MeetingCreatedInput captures the meeting-created domain event.
type MeetingCreatedInput struct {
	Actor   types.Actor
	Meeting *types.Meeting
}

// Type implements gocommand.Message.
func (MeetingCreatedInput) Type() string {
	return "meetings.activity.created"
}

// Validate implements gocommand.Message.
func (input MeetingCreatedInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.Meeting == nil:
		return ErrMeetingRequired
	default:
		return nil
	}
}

// MeetingCreatedCommand posts the meeting-create activity seed.
type MeetingCreatedCommand struct {
	bus    types.ActivityBus
	clock  types.Clock
	gate   featuregate.FeatureGate
	logger types.Logger
}

// MeetingCreatedCommandConfig wires dependencies for the handler.
type MeetingCreatedCommandConfig struct {
	Bus    types.ActivityBus
	Clock  types.Clock
	Gate   featuregate.FeatureGate
	Logger types.Logger
}

// NewMeetingCreatedCommand constructs the handler.
func NewMeetingCreatedCommand(cfg MeetingCreatedCommandConfig) *MeetingCreatedCommand {
	return &MeetingCreatedCommand{
		bus:    cfg.Bus,
		clock:  safeClock(cfg.Clock),
		gate:   cfg.Gate,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[MeetingCreatedInput] = (*MeetingCreatedCommand)(nil)

// Execute builds and posts exactly one meeting-create seed.
func (c *MeetingCreatedCommand) Execute(ctx context.Context, input MeetingCreatedInput) error {
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
		c.logger.Debug("meeting activity disabled, skipping create seed", "meeting", input.Meeting.ID)
		return nil
	}

	seed := types.NewActivitySeed(
		registry.ActivityMeetingCreate,
		nowMillis(c.clock),
		types.VerbCreate,
		actorRef(input.Actor),
		meetingRef(input.Meeting),
	)
	return c.bus.PostSeed(ctx, input.Actor, seed)
}
