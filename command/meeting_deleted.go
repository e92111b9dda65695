package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-meetings/pkg/types"
)

// MeetingDeletedInput captures a meeting deletion together with the member
// ids that lost access.
type MeetingDeletedInput struct {
	Actor     types.Actor
	Meeting   *types.Meeting
	MemberIDs []string
}

// Type implements gocommand.Message.
func (MeetingDeletedInput) Type() string {
	return "meetings.activity.deleted"
}

// Validate implements gocommand.Message.
func (input MeetingDeletedInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.Meeting == nil:
		return ErrMeetingRequired
	default:
		return nil
	}
}

// MeetingDeletedCommand accepts deletions without emitting an activity.
// Deleted meetings disappear from streams through bus-side cleanup rather
// than a new item announcing the removal.
type MeetingDeletedCommand struct {
	logger types.Logger
}

// MeetingDeletedCommandConfig wires dependencies for the handler.
type MeetingDeletedCommandConfig struct {
	Logger types.Logger
}

// NewMeetingDeletedCommand constructs the handler.
func NewMeetingDeletedCommand(cfg MeetingDeletedCommandConfig) *MeetingDeletedCommand {
	return &MeetingDeletedCommand{logger: safeLogger(cfg.Logger)}
}

var _ gocommand.Commander[MeetingDeletedInput] = (*MeetingDeletedCommand)(nil)

// Execute validates the event and records it at debug level.
func (c *MeetingDeletedCommand) Execute(_ context.Context, input MeetingDeletedInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	c.logger.Debug("meeting deleted, no activity emitted",
		"meeting", input.Meeting.ID, "members", len(input.MemberIDs))
	return nil
}
