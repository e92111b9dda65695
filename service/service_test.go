package service

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-meetings/adapter/securelink"
	"github.com/goliatone/go-meetings/command"
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
	"github.com/stretchr/testify/require"
)

type memoryBus struct {
	seeds []types.ActivitySeed
}

func (b *memoryBus) PostSeed(_ context.Context, _ types.Actor, seed types.ActivitySeed) error {
	b.seeds = append(b.seeds, seed)
	return nil
}

type memoryMembership struct {
	byRole map[string]map[string][]string
	groups map[string]bool
}

func (m *memoryMembership) MembersByRole(_ context.Context, resourceID string) (map[string][]string, error) {
	return m.byRole[resourceID], nil
}

func (m *memoryMembership) IsGroup(_ context.Context, principalID string) (bool, error) {
	return m.groups[principalID], nil
}

type memoryDirectory struct {
	meetings map[string]*types.Meeting
	messages map[string]*types.Message
}

func (d *memoryDirectory) GetMeeting(_ context.Context, id string) (*types.Meeting, error) {
	meeting, ok := d.meetings[id]
	if !ok {
		return nil, types.NewNotFound("meeting", id)
	}
	return meeting, nil
}

func (d *memoryDirectory) GetMessage(_ context.Context, id string) (*types.Message, error) {
	message, ok := d.messages[id]
	if !ok {
		return nil, types.NewNotFound("message", id)
	}
	return message, nil
}

func (d *memoryDirectory) RecentContributors(context.Context, string, int64, int) ([]string, error) {
	return nil, nil
}

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

type stubLinks struct {
	token   string
	payload map[string]any
	err     error
}

func (s *stubLinks) Generate(string, ...types.SecureLinkPayload) (string, error) {
	return s.token, s.err
}

func (s *stubLinks) Validate(string) (map[string]any, error) {
	return s.payload, s.err
}

func (s *stubLinks) GetAndValidate(func(string) string) (types.SecureLinkPayload, error) {
	return types.SecureLinkPayload(s.payload), s.err
}

func (s *stubLinks) GetExpiration() time.Duration { return time.Hour }

func testConfig() (Config, *memoryBus) {
	bus := &memoryBus{}
	meeting := &types.Meeting{
		ID:          "d:camtest:abc",
		TenantAlias: "camtest",
		CreatedBy:   "u:camtest:alice",
		DisplayName: "Weekly sync",
		Visibility:  types.VisibilityPrivate,
	}
	cfg := Config{
		Bus: bus,
		Membership: &memoryMembership{
			byRole: map[string]map[string][]string{
				"d:camtest:abc": {
					types.RoleManager: {"u:camtest:alice"},
					types.RoleMember:  {"u:camtest:bob"},
				},
			},
		},
		Directory: &memoryDirectory{meetings: map[string]*types.Meeting{meeting.ID: meeting}},
		Clock:     fixedClock{at: time.UnixMilli(1700000000000)},
	}
	return cfg, bus
}

func TestNewValidatesRequiredPorts(t *testing.T) {
	cfg, _ := testConfig()

	missingBus := cfg
	missingBus.Bus = nil
	_, err := New(missingBus)
	require.ErrorIs(t, err, types.ErrBusRequired)

	missingMembership := cfg
	missingMembership.Membership = nil
	_, err = New(missingMembership)
	require.True(t, types.IsConfiguration(err))

	missingDirectory := cfg
	missingDirectory.Directory = nil
	_, err = New(missingDirectory)
	require.True(t, types.IsConfiguration(err))
}

func TestNewWiresEverything(t *testing.T) {
	cfg, _ := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	commands := svc.Commands()
	require.NotNil(t, commands.MeetingCreated)
	require.NotNil(t, commands.MeetingUpdated)
	require.NotNil(t, commands.MeetingDeleted)
	require.NotNil(t, commands.MembersUpdated)
	require.NotNil(t, commands.MessageCreated)

	require.Len(t, svc.Registry().Types(), 7)
	require.True(t, svc.Associations().Known(types.AssociationMembers))

	meetingType, err := svc.Entity(types.ResourceTypeMeeting)
	require.NoError(t, err)
	require.Equal(t, types.ResourceTypeMeeting, meetingType.Kind())
	_, err = svc.Entity("folder")
	require.True(t, types.IsNotFound(err))
}

func TestDirectoryDoublesAsContributionTracker(t *testing.T) {
	cfg, _ := testConfig()
	cfg.Contributions = nil
	_, err := New(cfg)
	require.NoError(t, err)
}

func TestCommandPostsThroughService(t *testing.T) {
	cfg, bus := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	actor := types.Actor{UserID: "u:camtest:alice", Tenant: types.Tenant{Alias: "camtest"}}
	meeting := &types.Meeting{ID: "d:camtest:abc", TenantAlias: "camtest", DisplayName: "Weekly sync", Visibility: types.VisibilityPrivate}
	err = svc.Commands().MeetingCreated.Execute(context.Background(), command.MeetingCreatedInput{
		Actor:   actor,
		Meeting: meeting,
	})
	require.NoError(t, err)

	require.Len(t, bus.seeds, 1)
	require.Equal(t, registry.ActivityMeetingCreate, bus.seeds[0].ActivityType)
}

func TestRecipientsEndToEnd(t *testing.T) {
	cfg, _ := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	actor := types.NewResourceRef(types.ResourceTypeUser, "u:camtest:alice")
	meeting := types.NewResourceRef(types.ResourceTypeMeeting, "d:camtest:abc")
	target := types.NewResourceRef(types.ResourceTypeUser, "u:camtest:dave")
	seed := types.NewTargetedActivitySeed(
		registry.ActivityMeetingShare, 1700000000000, types.VerbShare, actor, meeting, target)

	out, err := svc.Recipients(context.Background(), registry.ActivityMeetingShare, seed)
	require.NoError(t, err)
	require.Equal(t, []string{"u:camtest:alice", "u:camtest:dave"}, out[registry.ChannelActivity])
	require.Equal(t, []string{"u:camtest:dave"}, out[registry.ChannelNotification])
}

func TestRecipientsUnknownActivityType(t *testing.T) {
	cfg, _ := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	actor := types.NewResourceRef(types.ResourceTypeUser, "u:camtest:alice")
	meeting := types.NewResourceRef(types.ResourceTypeMeeting, "d:camtest:abc")
	seed := types.NewActivitySeed("meeting-rename", 1, types.VerbUpdate, actor, meeting)

	_, err = svc.Recipients(context.Background(), "meeting-rename", seed)
	require.True(t, types.IsNotFound(err))
}

func TestSettingsResolve(t *testing.T) {
	cfg, _ := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	vis, err := svc.Settings().DefaultVisibility(context.Background(), "camtest")
	require.NoError(t, err)
	require.Equal(t, types.VisibilityPublic, vis)
}

func TestSignedProfileLink(t *testing.T) {
	cfg, _ := testConfig()
	cfg.Links = &stubLinks{
		token:   "signed-token",
		payload: map[string]any{"meeting": "d:camtest:abc"},
	}
	svc, err := New(cfg)
	require.NoError(t, err)

	token, err := svc.SignedProfileLink("d:camtest:abc")
	require.NoError(t, err)
	require.Equal(t, "signed-token", token)

	id, err := svc.ValidateProfileLink(token)
	require.NoError(t, err)
	require.Equal(t, "d:camtest:abc", id)
}

type profileLinkConfig struct{}

func (profileLinkConfig) GetSigningKey() string { return "test-signing-key-0123456789abcdef" }

func (profileLinkConfig) GetExpiration() time.Duration { return 30 * time.Minute }

func (profileLinkConfig) GetBaseURL() string { return "https://cam.example.com" }

func (profileLinkConfig) GetQueryKey() string { return "token" }

func (profileLinkConfig) GetRoutes() map[string]string {
	return map[string]string{ProfileLinkRoute: "/meeting/profile"}
}

func (profileLinkConfig) GetAsQuery() bool { return true }

func TestSignedProfileLinkThroughAdapter(t *testing.T) {
	links, err := securelink.NewManager(profileLinkConfig{})
	require.NoError(t, err)

	cfg, _ := testConfig()
	cfg.Links = links
	svc, err := New(cfg)
	require.NoError(t, err)

	link, err := svc.SignedProfileLink("d:camtest:abc")
	require.NoError(t, err)
	require.NotEmpty(t, link)
	require.Equal(t, 30*time.Minute, links.GetExpiration())
}

func TestSignedProfileLinkRequiresManager(t *testing.T) {
	cfg, _ := testConfig()
	svc, err := New(cfg)
	require.NoError(t, err)

	_, err = svc.SignedProfileLink("d:camtest:abc")
	require.True(t, types.IsConfiguration(err))
	_, err = svc.ValidateProfileLink("token")
	require.True(t, types.IsConfiguration(err))
}
