package entity

import (
	"context"

	"github.com/goliatone/go-meetings/pkg/types"
)

// MessageTypeConfig wires the message entity kind.
type MessageTypeConfig struct {
	Directory types.ResourceDirectory
	URLs      types.TenantURLResolver
	Sanitizer *Sanitizer
}

// MessageType produces and transforms message (comment) entities. Messages
// are sub-resources: events referencing one must carry the parent meeting
// id inline, since a message cannot be resolved to its parent any other
// way. Visibility is inherited from the parent at production time, so a
// meeting that later went private takes its messages with it.
type MessageType struct {
	directory types.ResourceDirectory
	urls      types.TenantURLResolver
	sanitizer *Sanitizer
}

var _ Type = (*MessageType)(nil)

// NewMessageType constructs the message entity kind.
func NewMessageType(cfg MessageTypeConfig) (*MessageType, error) {
	if cfg.Directory == nil {
		return nil, types.NewConfigurationError("message entity type requires a resource directory")
	}
	if cfg.URLs == nil {
		return nil, types.NewConfigurationError("message entity type requires a tenant url resolver")
	}
	sanitizer := cfg.Sanitizer
	if sanitizer == nil {
		sanitizer = NewSanitizer(SanitizerConfig{})
	}
	return &MessageType{directory: cfg.Directory, urls: cfg.URLs, sanitizer: sanitizer}, nil
}

// Kind implements Type.
func (t *MessageType) Kind() string { return types.ResourceTypeMessage }

// Produce implements Type. The ref must carry the parent meeting id; the
// parent is fetched so the message inherits its current visibility.
func (t *MessageType) Produce(ctx context.Context, ref types.ResourceRef) (types.ActivityEntity, error) {
	meetingID := inlineMeetingID(ref)
	if meetingID == "" {
		return types.ActivityEntity{}, types.NewConfigurationError(
			"message ref " + ref.ResourceID + " carries no parent meeting id")
	}

	message, ok := ref.Inline(types.InlineKeyMessage).(*types.Message)
	if !ok || message == nil {
		fetched, err := t.directory.GetMessage(ctx, ref.ResourceID)
		if err != nil {
			return types.ActivityEntity{}, err
		}
		message = fetched
	}

	parent, err := t.directory.GetMeeting(ctx, meetingID)
	if err != nil {
		return types.ActivityEntity{}, err
	}

	return types.ActivityEntity{
		EntityType: types.ResourceTypeMessage,
		EntityID:   message.ID,
		Visibility: parent.Visibility,
		Payload: map[string]any{
			types.InlineKeyMessage:   message,
			types.InlineKeyMeetingID: parent.ID,
		},
	}, nil
}

// TransformPublic implements Type.
func (t *MessageType) TransformPublic(_ context.Context, actor types.Actor, entities []types.ActivityEntity) ([]types.DisplayEntity, error) {
	baseURL := t.urls.BaseURL(actor.Tenant)
	out := make([]types.DisplayEntity, 0, len(entities))
	for _, ent := range entities {
		message, err := messageFromEntity(ent)
		if err != nil {
			return nil, err
		}
		out = append(out, types.DisplayEntity{
			EntityType: types.ResourceTypeMessage,
			GlobalID:   baseURL + "/api/meeting/" + message.MeetingID + "/messages/" + message.ID,
			Visibility: ent.Visibility,
		})
	}
	return out, nil
}

// TransformInternal implements Type.
func (t *MessageType) TransformInternal(_ context.Context, entities []types.ActivityEntity) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(entities))
	for _, ent := range entities {
		message, err := messageFromEntity(ent)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"id":        message.ID,
			"meetingId": message.MeetingID,
			"createdBy": message.CreatedBy,
			"body":      message.Body,
			"threadKey": message.ThreadKey,
			"created":   message.Created,
		}
		out = append(out, t.sanitizer.Sanitize(payload))
	}
	return out, nil
}

// Propagation implements Type. Messages propagate exactly as far as their
// parent meeting's current visibility allows.
func (t *MessageType) Propagation(entity types.ActivityEntity) []PropagationRule {
	tenantAlias := ""
	if message, err := messageFromEntity(entity); err == nil {
		if parsed, perr := types.ParseResourceID(message.MeetingID); perr == nil {
			tenantAlias = parsed.TenantAlias
		}
	}
	return StandardPropagation(entity.Visibility, tenantAlias)
}

func inlineMeetingID(ref types.ResourceRef) string {
	if id, ok := ref.Inline(types.InlineKeyMeetingID).(string); ok {
		return id
	}
	return ""
}

func messageFromEntity(ent types.ActivityEntity) (*types.Message, error) {
	message, ok := ent.Payload[types.InlineKeyMessage].(*types.Message)
	if !ok || message == nil {
		return nil, types.NewConfigurationError("entity " + ent.EntityID + " carries no message payload")
	}
	return message, nil
}
