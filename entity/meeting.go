package entity

import (
	"context"

	"github.com/goliatone/go-meetings/pkg/types"
)

// MeetingTypeConfig wires the meeting entity kind.
type MeetingTypeConfig struct {
	Directory types.ResourceDirectory
	URLs      types.TenantURLResolver
	Sanitizer *Sanitizer
}

// MeetingType produces and transforms meeting entities.
type MeetingType struct {
	directory types.ResourceDirectory
	urls      types.TenantURLResolver
	sanitizer *Sanitizer
}

var _ Type = (*MeetingType)(nil)

// NewMeetingType constructs the meeting entity kind.
func NewMeetingType(cfg MeetingTypeConfig) (*MeetingType, error) {
	if cfg.Directory == nil {
		return nil, types.NewConfigurationError("meeting entity type requires a resource directory")
	}
	if cfg.URLs == nil {
		return nil, types.NewConfigurationError("meeting entity type requires a tenant url resolver")
	}
	sanitizer := cfg.Sanitizer
	if sanitizer == nil {
		sanitizer = NewSanitizer(SanitizerConfig{})
	}
	return &MeetingType{directory: cfg.Directory, urls: cfg.URLs, sanitizer: sanitizer}, nil
}

// Kind implements Type.
func (t *MeetingType) Kind() string { return types.ResourceTypeMeeting }

// Produce implements Type. A meeting attached inline on the ref is used
// as-is; otherwise the canonical record is fetched from the directory.
func (t *MeetingType) Produce(ctx context.Context, ref types.ResourceRef) (types.ActivityEntity, error) {
	if meeting, ok := ref.Inline(types.InlineKeyMeeting).(*types.Meeting); ok && meeting != nil {
		return meetingEntity(meeting), nil
	}
	meeting, err := t.directory.GetMeeting(ctx, ref.ResourceID)
	if err != nil {
		return types.ActivityEntity{}, err
	}
	return meetingEntity(meeting), nil
}

func meetingEntity(meeting *types.Meeting) types.ActivityEntity {
	return types.ActivityEntity{
		EntityType: types.ResourceTypeMeeting,
		EntityID:   meeting.ID,
		Visibility: meeting.Visibility,
		Payload:    map[string]any{types.InlineKeyMeeting: meeting},
	}
}

// TransformPublic implements Type. The global id is tenant qualified so
// the same meeting renders the same identifier on every stream of the
// actor's tenant.
func (t *MeetingType) TransformPublic(_ context.Context, actor types.Actor, entities []types.ActivityEntity) ([]types.DisplayEntity, error) {
	baseURL := t.urls.BaseURL(actor.Tenant)
	out := make([]types.DisplayEntity, 0, len(entities))
	for _, ent := range entities {
		meeting, err := meetingFromEntity(ent)
		if err != nil {
			return nil, err
		}
		display := types.DisplayEntity{
			EntityType:  types.ResourceTypeMeeting,
			GlobalID:    baseURL + "/api/meeting/" + meeting.ID,
			DisplayName: meeting.DisplayName,
			Visibility:  meeting.Visibility,
		}
		parsed, err := types.ParseResourceID(meeting.ID)
		if err != nil {
			// Meeting ids are minted by FormatResourceID, so one that does
			// not parse back is corrupt data, not a display concern.
			return nil, err
		}
		display.ProfilePath = "/meeting/" + parsed.TenantAlias + "/" + parsed.LocalID
		display.URL = baseURL + display.ProfilePath
		out = append(out, display)
	}
	return out, nil
}

// TransformInternal implements Type. Internal consumers receive the raw
// meeting payload with denylisted fields masked; routing metadata never
// crosses this boundary.
func (t *MeetingType) TransformInternal(_ context.Context, entities []types.ActivityEntity) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(entities))
	for _, ent := range entities {
		meeting, err := meetingFromEntity(ent)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"id":           meeting.ID,
			"tenantAlias":  meeting.TenantAlias,
			"createdBy":    meeting.CreatedBy,
			"displayName":  meeting.DisplayName,
			"description":  meeting.Description,
			"chat":         meeting.Chat,
			"contactList":  meeting.ContactList,
			"visibility":   string(meeting.Visibility),
			"created":      meeting.Created,
			"lastModified": meeting.LastModified,
		}
		out = append(out, t.sanitizer.Sanitize(payload))
	}
	return out, nil
}

// Propagation implements Type.
func (t *MeetingType) Propagation(entity types.ActivityEntity) []PropagationRule {
	tenantAlias := ""
	if meeting, err := meetingFromEntity(entity); err == nil {
		tenantAlias = meeting.TenantAlias
	}
	return StandardPropagation(entity.Visibility, tenantAlias)
}

func meetingFromEntity(ent types.ActivityEntity) (*types.Meeting, error) {
	meeting, ok := ent.Payload[types.InlineKeyMeeting].(*types.Meeting)
	if !ok || meeting == nil {
		return nil, types.NewConfigurationError("entity " + ent.EntityID + " carries no meeting payload")
	}
	return meeting, nil
}
