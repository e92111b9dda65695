package stream

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry models one delivered activity row in meeting_activity. Every
// recipient/channel pair routed for a seed gets its own row; the stream id
// is "<recipientId>#<channel>".
type Entry struct {
	bun.BaseModel `bun:"table:meeting_activity"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid"`
	StreamID     string         `bun:"stream_id"`
	RecipientID  string         `bun:"recipient_id"`
	Channel      string         `bun:"channel"`
	TenantAlias  string         `bun:"tenant_alias"`
	ActivityType string         `bun:"activity_type"`
	Verb         string         `bun:"verb"`
	ActorID      string         `bun:"actor_id"`
	ObjectID     string         `bun:"object_id"`
	TargetID     string         `bun:"target_id"`
	Payload      map[string]any `bun:"payload,type:jsonb"`
	Published    int64          `bun:"published"`
	CreatedAt    time.Time      `bun:"created_at"`
}

// StreamID builds the stream identifier for a recipient and channel.
func StreamID(recipientID, channel string) string {
	return recipientID + "#" + channel
}
