package directory

import (
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MeetingRecord models the meetings row.
type MeetingRecord struct {
	bun.BaseModel `bun:"table:meetings"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid"`
	ResourceID   string         `bun:"resource_id,unique"`
	TenantAlias  string         `bun:"tenant_alias"`
	CreatedBy    string         `bun:"created_by"`
	DisplayName  string         `bun:"display_name"`
	Description  string         `bun:"description"`
	Chat         bool           `bun:"chat"`
	ContactList  bool           `bun:"contact_list"`
	Visibility   string         `bun:"visibility"`
	Metadata     map[string]any `bun:"metadata,type:jsonb"`
	Created      int64          `bun:"created"`
	LastModified int64          `bun:"last_modified"`
}

// MessageRecord models the meeting_messages row.
type MessageRecord struct {
	bun.BaseModel `bun:"table:meeting_messages"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	ResourceID string    `bun:"resource_id,unique"`
	MeetingID  string    `bun:"meeting_id"`
	CreatedBy  string    `bun:"created_by"`
	Body       string    `bun:"body"`
	ThreadKey  string    `bun:"thread_key"`
	Created    int64     `bun:"created"`
}

func (r *MeetingRecord) toMeeting() *types.Meeting {
	return &types.Meeting{
		ID:           r.ResourceID,
		TenantAlias:  r.TenantAlias,
		CreatedBy:    r.CreatedBy,
		DisplayName:  r.DisplayName,
		Description:  r.Description,
		Chat:         r.Chat,
		ContactList:  r.ContactList,
		Visibility:   types.Visibility(r.Visibility),
		Created:      r.Created,
		LastModified: r.LastModified,
	}
}

func (r *MessageRecord) toMessage() *types.Message {
	return &types.Message{
		ID:        r.ResourceID,
		MeetingID: r.MeetingID,
		CreatedBy: r.CreatedBy,
		Body:      r.Body,
		ThreadKey: r.ThreadKey,
		Created:   r.Created,
	}
}
