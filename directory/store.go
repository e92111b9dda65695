package directory

import (
	"context"
	"strings"

	"github.com/goliatone/go-meetings/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid"
	"github.com/uptrace/bun"
)

// StoreConfig wires the bun-backed meeting directory.
type StoreConfig struct {
	DB       *bun.DB
	Meetings repository.Repository[*MeetingRecord]
	Messages repository.Repository[*MessageRecord]
	Clock    types.Clock
	IDGen    types.IDGenerator
}

// Store persists meetings and their messages. It is the default
// implementation of the ResourceDirectory and ContributionTracker
// contracts; hosts with their own storage replace it wholesale.
type Store struct {
	meetings repository.Repository[*MeetingRecord]
	messages repository.Repository[*MessageRecord]
	clock    types.Clock
	idGen    types.IDGenerator
}

var (
	_ types.ResourceDirectory   = (*Store)(nil)
	_ types.ContributionTracker = (*Store)(nil)
)

// NewStore constructs the store. Either DB or both repositories must be
// provided; when DB is supplied the repositories are created
// automatically.
func NewStore(cfg StoreConfig, options ...StoreOption) (*Store, error) {
	opts := applyStoreOptions(options)

	meetings := cfg.Meetings
	messages := cfg.Messages
	if meetings == nil || messages == nil {
		if cfg.DB == nil {
			return nil, types.NewConfigurationError("directory: db or repositories required")
		}
		if meetings == nil {
			meetings = repository.NewRepository(cfg.DB, repository.ModelHandlers[*MeetingRecord]{
				NewRecord: func() *MeetingRecord { return &MeetingRecord{} },
				GetID: func(rec *MeetingRecord) uuid.UUID {
					if rec == nil {
						return uuid.Nil
					}
					return rec.ID
				},
				SetID: func(rec *MeetingRecord, id uuid.UUID) {
					if rec != nil {
						rec.ID = id
					}
				},
			})
		}
		if messages == nil {
			messages = repository.NewRepository(cfg.DB, repository.ModelHandlers[*MessageRecord]{
				NewRecord: func() *MessageRecord { return &MessageRecord{} },
				GetID: func(rec *MessageRecord) uuid.UUID {
					if rec == nil {
						return uuid.Nil
					}
					return rec.ID
				},
				SetID: func(rec *MessageRecord, id uuid.UUID) {
					if rec != nil {
						rec.ID = id
					}
				},
			})
		}
	}

	meetings, messages, err := maybeWrapCache(meetings, messages, opts)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Store{meetings: meetings, messages: messages, clock: clock, idGen: idGen}, nil
}

// CreateMeetingInput captures the payload for meeting creation.
type CreateMeetingInput struct {
	TenantAlias string
	CreatedBy   string
	DisplayName string
	Description string
	Chat        bool
	ContactList bool
	Visibility  types.Visibility
}

// CreateMeeting persists a new meeting and returns the domain record.
func (s *Store) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*types.Meeting, error) {
	switch {
	case strings.TrimSpace(input.TenantAlias) == "":
		return nil, types.NewConfigurationError("meeting requires a tenant alias")
	case strings.TrimSpace(input.CreatedBy) == "":
		return nil, types.NewConfigurationError("meeting requires a creator")
	case strings.TrimSpace(input.DisplayName) == "":
		return nil, types.NewConfigurationError("meeting requires a display name")
	case !types.ValidVisibility(input.Visibility):
		return nil, types.NewConfigurationError("invalid meeting visibility: " + string(input.Visibility))
	}

	now := s.clock.Now().UnixMilli()
	rec := &MeetingRecord{
		ID:           s.idGen.UUID(),
		ResourceID:   types.FormatResourceID("d", input.TenantAlias, shortuuid.New()),
		TenantAlias:  input.TenantAlias,
		CreatedBy:    input.CreatedBy,
		DisplayName:  input.DisplayName,
		Description:  input.Description,
		Chat:         input.Chat,
		ContactList:  input.ContactList,
		Visibility:   string(input.Visibility),
		Created:      now,
		LastModified: now,
	}
	created, err := s.meetings.Create(ctx, rec)
	if err != nil {
		return nil, types.NewServiceError("meeting directory", err)
	}
	return created.toMeeting(), nil
}

// GetMeeting implements types.ResourceDirectory.
func (s *Store) GetMeeting(ctx context.Context, id string) (*types.Meeting, error) {
	rec, err := s.meetings.Get(ctx, byResourceID(id))
	switch {
	case repository.IsRecordNotFound(err):
		return nil, types.NewNotFound("meeting", id)
	case err != nil:
		return nil, types.NewServiceError("meeting directory", err)
	}
	return rec.toMeeting(), nil
}

// UpdateMeetingInput lists the profile fields a meeting update may touch.
// Nil fields stay untouched.
type UpdateMeetingInput struct {
	DisplayName *string
	Description *string
	Chat        *bool
	ContactList *bool
	Visibility  *types.Visibility
}

// UpdateMeeting applies the profile changes and bumps the modification
// stamp.
func (s *Store) UpdateMeeting(ctx context.Context, id string, input UpdateMeetingInput) (*types.Meeting, error) {
	rec, err := s.meetings.Get(ctx, byResourceID(id))
	switch {
	case repository.IsRecordNotFound(err):
		return nil, types.NewNotFound("meeting", id)
	case err != nil:
		return nil, types.NewServiceError("meeting directory", err)
	}

	if input.DisplayName != nil {
		if strings.TrimSpace(*input.DisplayName) == "" {
			return nil, types.NewConfigurationError("meeting display name cannot be empty")
		}
		rec.DisplayName = *input.DisplayName
	}
	if input.Description != nil {
		rec.Description = *input.Description
	}
	if input.Chat != nil {
		rec.Chat = *input.Chat
	}
	if input.ContactList != nil {
		rec.ContactList = *input.ContactList
	}
	if input.Visibility != nil {
		if !types.ValidVisibility(*input.Visibility) {
			return nil, types.NewConfigurationError("invalid meeting visibility: " + string(*input.Visibility))
		}
		rec.Visibility = string(*input.Visibility)
	}
	rec.LastModified = s.clock.Now().UnixMilli()

	updated, err := s.meetings.Update(ctx, rec)
	if err != nil {
		return nil, types.NewServiceError("meeting directory", err)
	}
	return updated.toMeeting(), nil
}

// DeleteMeeting removes the meeting and its messages.
func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	rec, err := s.meetings.Get(ctx, byResourceID(id))
	switch {
	case repository.IsRecordNotFound(err):
		return types.NewNotFound("meeting", id)
	case err != nil:
		return types.NewServiceError("meeting directory", err)
	}
	if err := s.messages.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("meeting_id = ?", id)
	}); err != nil {
		return types.NewServiceError("meeting directory", err)
	}
	if err := s.meetings.Delete(ctx, rec); err != nil {
		return types.NewServiceError("meeting directory", err)
	}
	return nil
}

// CreateMessageInput captures the payload for posting a message.
type CreateMessageInput struct {
	MeetingID string
	CreatedBy string
	Body      string
	ThreadKey string
}

// CreateMessage persists a message on an existing meeting.
func (s *Store) CreateMessage(ctx context.Context, input CreateMessageInput) (*types.Message, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, types.NewConfigurationError("message requires a body")
	}
	if strings.TrimSpace(input.CreatedBy) == "" {
		return nil, types.NewConfigurationError("message requires a creator")
	}
	meeting, err := s.GetMeeting(ctx, input.MeetingID)
	if err != nil {
		return nil, err
	}

	rec := &MessageRecord{
		ID:         s.idGen.UUID(),
		ResourceID: types.FormatResourceID("m", meeting.TenantAlias, shortuuid.New()),
		MeetingID:  meeting.ID,
		CreatedBy:  input.CreatedBy,
		Body:       input.Body,
		ThreadKey:  input.ThreadKey,
		Created:    s.clock.Now().UnixMilli(),
	}
	created, err := s.messages.Create(ctx, rec)
	if err != nil {
		return nil, types.NewServiceError("meeting directory", err)
	}
	return created.toMessage(), nil
}

// GetMessage implements types.ResourceDirectory.
func (s *Store) GetMessage(ctx context.Context, id string) (*types.Message, error) {
	rec, err := s.messages.Get(ctx, byMessageResourceID(id))
	switch {
	case repository.IsRecordNotFound(err):
		return nil, types.NewNotFound("message", id)
	case err != nil:
		return nil, types.NewServiceError("meeting directory", err)
	}
	return rec.toMessage(), nil
}

// contributorScanCap bounds how many messages one contributor lookup will
// scan before giving up on filling the distinct set.
const contributorScanCap = 1000

// RecentContributors implements types.ContributionTracker: the distinct
// creators of the meeting's latest messages, most recent first.
func (s *Store) RecentContributors(ctx context.Context, resourceID string, before int64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, _, err := s.messages.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("meeting_id = ?", resourceID)
		if before > 0 {
			q = q.Where("created < ?", before)
		}
		return q.OrderExpr("created DESC").Limit(contributorScanCap)
	})
	if err != nil {
		return nil, types.NewServiceError("meeting directory", err)
	}

	seen := make(map[string]bool, limit)
	contributors := make([]string, 0, limit)
	for _, row := range rows {
		if row.CreatedBy == "" || seen[row.CreatedBy] {
			continue
		}
		seen[row.CreatedBy] = true
		contributors = append(contributors, row.CreatedBy)
		if len(contributors) == limit {
			break
		}
	}
	return contributors, nil
}

func byResourceID(id string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("resource_id = ?", id)
	}
}

func byMessageResourceID(id string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("resource_id = ?", id)
	}
}
