package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// MessageCreatedInput captures a message posted on a meeting. The event
// must carry both the message and its parent meeting: the message cannot
// be resolved to its parent by any other means.
type MessageCreatedInput struct {
	Actor   types.Actor
	Meeting *types.Meeting
	Message *types.Message
}

// Type implements gocommand.Message.
func (MessageCreatedInput) Type() string {
	return "meetings.activity.message_created"
}

// Validate implements gocommand.Message.
func (input MessageCreatedInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.Meeting == nil:
		return ErrMeetingRequired
	case input.Message == nil:
		return ErrMessageRequired
	default:
		return nil
	}
}

// MessageCreatedCommand posts the meeting-message activity seed.
type MessageCreatedCommand struct {
	bus    types.ActivityBus
	clock  types.Clock
	gate   featuregate.FeatureGate
	logger types.Logger
}

// MessageCreatedCommandConfig wires dependencies for the handler.
type MessageCreatedCommandConfig struct {
	Bus    types.ActivityBus
	Clock  types.Clock
	Gate   featuregate.FeatureGate
	Logger types.Logger
}

// NewMessageCreatedCommand constructs the handler.
func NewMessageCreatedCommand(cfg MessageCreatedCommandConfig) *MessageCreatedCommand {
	return &MessageCreatedCommand{
		bus:    cfg.Bus,
		clock:  safeClock(cfg.Clock),
		gate:   cfg.Gate,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[MessageCreatedInput] = (*MessageCreatedCommand)(nil)

// Execute posts one meeting-message seed. The object ref carries the
// message and the parent meeting id inline so the producer can stamp
// visibility without a second lookup chain.
func (c *MessageCreatedCommand) Execute(ctx context.Context, input MessageCreatedInput) error {
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

	object := types.NewResourceRef(types.ResourceTypeMessage, input.Message.ID).
		WithInline(types.InlineKeyMessage, input.Message).
		WithInline(types.InlineKeyMeetingID, input.Meeting.ID)

	seed := types.NewTargetedActivitySeed(
		registry.ActivityMeetingMessage,
		nowMillis(c.clock),
		types.VerbPost,
		actorRef(input.Actor),
		object,
		meetingRef(input.Meeting),
	)
	return c.bus.PostSeed(ctx, input.Actor, seed)
}
