package command

import (
	"context"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/pkg/types"
)

const featureMeetingActivity = "meetings.activity"

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

// activityEnabled consults the optional feature gate. A nil gate means the
// activity flow is always on.
func activityEnabled(ctx context.Context, gate featuregate.FeatureGate) (bool, error) {
	if gate == nil {
		return true, nil
	}
	return gate.Enabled(ctx, featureMeetingActivity)
}

func nowMillis(clock types.Clock) int64 {
	return clock.Now().UnixNano() / int64(time.Millisecond)
}

func actorRef(actor types.Actor) types.ResourceRef {
	return types.NewResourceRef(types.ResourceTypeUser, actor.UserID)
}

func meetingRef(meeting *types.Meeting) types.ResourceRef {
	return types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)
}
