package entity

import (
	"context"
	"testing"

	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	meetings     map[string]*types.Meeting
	messages     map[string]*types.Message
	meetingCalls int
	messageCalls int
}

func (f *fakeDirectory) GetMeeting(_ context.Context, id string) (*types.Meeting, error) {
	f.meetingCalls++
	meeting, ok := f.meetings[id]
	if !ok {
		return nil, types.NewNotFound("meeting", id)
	}
	return meeting, nil
}

func (f *fakeDirectory) GetMessage(_ context.Context, id string) (*types.Message, error) {
	f.messageCalls++
	message, ok := f.messages[id]
	if !ok {
		return nil, types.NewNotFound("message", id)
	}
	return message, nil
}

type staticURLs struct{ base string }

func (s staticURLs) BaseURL(types.Tenant) string { return s.base }

func testMeeting() *types.Meeting {
	return &types.Meeting{
		ID:          "d:camtest:abc",
		TenantAlias: "camtest",
		CreatedBy:   "u:camtest:alice",
		DisplayName: "Weekly sync",
		Visibility:  types.VisibilityPrivate,
		Chat:        true,
	}
}

func newMeetingType(t *testing.T, dir *fakeDirectory) *MeetingType {
	t.Helper()
	mt, err := NewMeetingType(MeetingTypeConfig{Directory: dir, URLs: staticURLs{base: "https://cam.example.com"}})
	require.NoError(t, err)
	return mt
}

func TestNewMeetingTypeRequiresDeps(t *testing.T) {
	_, err := NewMeetingType(MeetingTypeConfig{URLs: staticURLs{}})
	require.True(t, types.IsConfiguration(err))
	_, err = NewMeetingType(MeetingTypeConfig{Directory: &fakeDirectory{}})
	require.True(t, types.IsConfiguration(err))
}

func TestMeetingProducePrefersInline(t *testing.T) {
	dir := &fakeDirectory{}
	mt := newMeetingType(t, dir)

	meeting := testMeeting()
	ref := types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)

	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, meeting.ID, ent.EntityID)
	require.Equal(t, types.VisibilityPrivate, ent.Visibility)
	require.Zero(t, dir.meetingCalls)
}

func TestMeetingProduceFetchesFallback(t *testing.T) {
	meeting := testMeeting()
	dir := &fakeDirectory{meetings: map[string]*types.Meeting{meeting.ID: meeting}}
	mt := newMeetingType(t, dir)

	ent, err := mt.Produce(context.Background(), types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID))
	require.NoError(t, err)
	require.Equal(t, meeting.ID, ent.EntityID)
	require.Equal(t, 1, dir.meetingCalls)

	_, err = mt.Produce(context.Background(), types.NewResourceRef(types.ResourceTypeMeeting, "d:camtest:gone"))
	require.True(t, types.IsNotFound(err))
}

func TestMeetingTransformPublic(t *testing.T) {
	mt := newMeetingType(t, &fakeDirectory{})

	meeting := testMeeting()
	ref := types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)

	actor := types.Actor{UserID: "u:camtest:alice", Tenant: types.Tenant{Alias: "camtest", Host: "cam.example.com"}}
	display, err := mt.TransformPublic(context.Background(), actor, []types.ActivityEntity{ent})
	require.NoError(t, err)
	require.Len(t, display, 1)
	require.Equal(t, "https://cam.example.com/api/meeting/d:camtest:abc", display[0].GlobalID)
	require.Equal(t, "/meeting/camtest/abc", display[0].ProfilePath)
	require.Equal(t, "https://cam.example.com/meeting/camtest/abc", display[0].URL)
	require.Equal(t, "Weekly sync", display[0].DisplayName)
	require.Equal(t, types.VisibilityPrivate, display[0].Visibility)
}

func TestMeetingTransformPublicRejectsMalformedID(t *testing.T) {
	mt := newMeetingType(t, &fakeDirectory{})

	meeting := testMeeting()
	meeting.ID = "not-a-resource-id"
	ref := types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)

	actor := types.Actor{UserID: "u:camtest:alice", Tenant: types.Tenant{Alias: "camtest"}}
	_, err = mt.TransformPublic(context.Background(), actor, []types.ActivityEntity{ent})
	require.ErrorIs(t, err, types.ErrInvalidResourceID)
}

func TestMeetingTransformInternal(t *testing.T) {
	mt := newMeetingType(t, &fakeDirectory{})

	meeting := testMeeting()
	ref := types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)

	payloads, err := mt.TransformInternal(context.Background(), []types.ActivityEntity{ent})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, "d:camtest:abc", payloads[0]["id"])
	require.Equal(t, "Weekly sync", payloads[0]["displayName"])
	require.Equal(t, "private", payloads[0]["visibility"])
}

func TestMeetingPropagation(t *testing.T) {
	mt := newMeetingType(t, &fakeDirectory{})

	meeting := testMeeting()
	meeting.Visibility = types.VisibilityLoggedIn
	ref := types.NewResourceRef(types.ResourceTypeMeeting, meeting.ID).
		WithInline(types.InlineKeyMeeting, meeting)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)

	rules := mt.Propagation(ent)
	require.Equal(t, []PropagationRule{{Type: PropagationTenant, TenantAlias: "camtest"}}, rules)
}

func TestStandardPropagation(t *testing.T) {
	require.Equal(t, []PropagationRule{{Type: PropagationAll}},
		StandardPropagation(types.VisibilityPublic, "camtest"))
	require.Equal(t, []PropagationRule{{Type: PropagationTenant, TenantAlias: "camtest"}},
		StandardPropagation(types.VisibilityLoggedIn, "camtest"))
	require.Equal(t, []PropagationRule{{Type: PropagationRoutes}},
		StandardPropagation(types.VisibilityPrivate, "camtest"))
}

func TestMessageProduceInheritsParentVisibility(t *testing.T) {
	meeting := testMeeting()
	message := &types.Message{
		ID:        "m:camtest:9",
		MeetingID: meeting.ID,
		CreatedBy: "u:camtest:bob",
		Body:      "hello",
	}
	dir := &fakeDirectory{
		meetings: map[string]*types.Meeting{meeting.ID: meeting},
		messages: map[string]*types.Message{message.ID: message},
	}
	mt, err := NewMessageType(MessageTypeConfig{Directory: dir, URLs: staticURLs{base: "https://cam.example.com"}})
	require.NoError(t, err)

	ref := types.NewResourceRef(types.ResourceTypeMessage, message.ID).
		WithInline(types.InlineKeyMessage, message).
		WithInline(types.InlineKeyMeetingID, meeting.ID)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, types.VisibilityPrivate, ent.Visibility)
	require.Equal(t, meeting.ID, ent.Payload[types.InlineKeyMeetingID])
	// Inline message skips the message fetch; the parent is always fetched.
	require.Zero(t, dir.messageCalls)
	require.Equal(t, 1, dir.meetingCalls)
}

func TestMessageProduceRequiresParentID(t *testing.T) {
	mt, err := NewMessageType(MessageTypeConfig{Directory: &fakeDirectory{}, URLs: staticURLs{}})
	require.NoError(t, err)

	_, err = mt.Produce(context.Background(), types.NewResourceRef(types.ResourceTypeMessage, "m:camtest:9"))
	require.True(t, types.IsConfiguration(err))
}

func TestMessageProduceFetchesWhenNotInline(t *testing.T) {
	meeting := testMeeting()
	message := &types.Message{ID: "m:camtest:9", MeetingID: meeting.ID, Body: "hello"}
	dir := &fakeDirectory{
		meetings: map[string]*types.Meeting{meeting.ID: meeting},
		messages: map[string]*types.Message{message.ID: message},
	}
	mt, err := NewMessageType(MessageTypeConfig{Directory: dir, URLs: staticURLs{}})
	require.NoError(t, err)

	ref := types.NewResourceRef(types.ResourceTypeMessage, message.ID).
		WithInline(types.InlineKeyMeetingID, meeting.ID)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, message.ID, ent.EntityID)
	require.Equal(t, 1, dir.messageCalls)
}

func TestMessageTransformPublic(t *testing.T) {
	meeting := testMeeting()
	message := &types.Message{ID: "m:camtest:9", MeetingID: meeting.ID, Body: "hello"}
	dir := &fakeDirectory{meetings: map[string]*types.Meeting{meeting.ID: meeting}}
	mt, err := NewMessageType(MessageTypeConfig{Directory: dir, URLs: staticURLs{base: "https://cam.example.com"}})
	require.NoError(t, err)

	ref := types.NewResourceRef(types.ResourceTypeMessage, message.ID).
		WithInline(types.InlineKeyMessage, message).
		WithInline(types.InlineKeyMeetingID, meeting.ID)
	ent, err := mt.Produce(context.Background(), ref)
	require.NoError(t, err)

	actor := types.Actor{UserID: "u:camtest:alice", Tenant: types.Tenant{Alias: "camtest"}}
	display, err := mt.TransformPublic(context.Background(), actor, []types.ActivityEntity{ent})
	require.NoError(t, err)
	require.Len(t, display, 1)
	require.Equal(t, "https://cam.example.com/api/meeting/d:camtest:abc/messages/m:camtest:9", display[0].GlobalID)
}
