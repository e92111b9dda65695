package association

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
	"github.com/stretchr/testify/require"
)

func shareSpec(t *testing.T) registry.ActivityType {
	t.Helper()
	reg := registry.New()
	require.NoError(t, registry.RegisterMeetingActivityTypes(reg))
	spec, err := reg.Get(registry.ActivityMeetingShare)
	require.NoError(t, err)
	return spec
}

func TestRecipientsRoutesAllChannels(t *testing.T) {
	membership := &fakeMembership{byRole: map[string][]string{
		types.RoleManager: {"u:t:alice"},
		types.RoleMember:  {"u:t:bob"},
	}}
	r := newMeetingRegistrar(t, membership, &fakeContributions{})

	ctx := context.Background()
	actorCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeUser, EntityID: "u:t:alice",
	})
	objectCtx := r.NewContext(ctx, meetingEntity("d:t:1"))
	targetCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeUser, EntityID: "u:t:dave",
	})
	defer actorCtx.Close()
	defer objectCtx.Close()
	defer targetCtx.Close()

	out, err := Recipients(ctx, shareSpec(t), map[registry.EntityRole]*Context{
		registry.RoleActor:  actorCtx,
		registry.RoleObject: objectCtx,
		registry.RoleTarget: targetCtx,
	})
	require.NoError(t, err)

	// activity: actor self, object managers, target self. The meeting
	// manager u:t:alice is also the actor, so it appears exactly once.
	require.Equal(t, []string{"u:t:alice", "u:t:dave"}, out[registry.ChannelActivity])
	require.Equal(t, []string{"u:t:dave"}, out[registry.ChannelNotification])
	require.Equal(t, []string{"u:t:dave"}, out[registry.ChannelEmail])
}

func TestRecipientsSkipsMissingRoles(t *testing.T) {
	membership := &fakeMembership{byRole: map[string][]string{
		types.RoleManager: {"u:t:alice"},
	}}
	r := newMeetingRegistrar(t, membership, &fakeContributions{})

	ctx := context.Background()
	actorCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeUser, EntityID: "u:t:alice",
	})
	objectCtx := r.NewContext(ctx, meetingEntity("d:t:1"))
	defer actorCtx.Close()
	defer objectCtx.Close()

	// Share spec routes the target on every channel; without a target
	// context those entries are simply skipped.
	out, err := Recipients(ctx, shareSpec(t), map[registry.EntityRole]*Context{
		registry.RoleActor:  actorCtx,
		registry.RoleObject: objectCtx,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"u:t:alice"}, out[registry.ChannelActivity])
	require.Empty(t, out[registry.ChannelNotification])
}

func TestRecipientsSurfacesResolverFailure(t *testing.T) {
	membership := &fakeMembership{lastErr: errors.New("membership down")}
	r := newMeetingRegistrar(t, membership, &fakeContributions{})

	ctx := context.Background()
	actorCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeUser, EntityID: "u:t:alice",
	})
	objectCtx := r.NewContext(ctx, meetingEntity("d:t:1"))
	targetCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeUser, EntityID: "u:t:dave",
	})
	defer actorCtx.Close()
	defer objectCtx.Close()
	defer targetCtx.Close()

	_, err := Recipients(ctx, shareSpec(t), map[registry.EntityRole]*Context{
		registry.RoleActor:  actorCtx,
		registry.RoleObject: objectCtx,
		registry.RoleTarget: targetCtx,
	})
	require.Error(t, err)
}

func TestRecipientsMessageActivity(t *testing.T) {
	membership := &fakeMembership{byRole: map[string][]string{
		types.RoleManager: {"u:t:alice"},
		types.RoleMember:  {"u:t:bob"},
	}}
	contributions := &fakeContributions{ids: []string{"u:t:bob", "u:t:eve"}}
	r := newMeetingRegistrar(t, membership, contributions)

	reg := registry.New()
	require.NoError(t, registry.RegisterMeetingActivityTypes(reg))
	spec, err := reg.Get(registry.ActivityMeetingMessage)
	require.NoError(t, err)

	ctx := context.Background()
	objectCtx := r.NewContext(ctx, types.ActivityEntity{
		EntityType: types.ResourceTypeMessage,
		EntityID:   "m:t:9",
		Payload:    map[string]any{types.InlineKeyMeetingID: "d:t:1"},
	})
	targetCtx := r.NewContext(ctx, meetingEntity("d:t:1"))
	defer objectCtx.Close()
	defer targetCtx.Close()

	out, err := Recipients(ctx, spec, map[registry.EntityRole]*Context{
		registry.RoleObject: objectCtx,
		registry.RoleTarget: targetCtx,
	})
	require.NoError(t, err)

	// activity: object self (parent meeting id), then target contributors
	// and members, de-duplicated in declaration order.
	require.Equal(t, []string{"d:t:1", "u:t:bob", "u:t:eve", "u:t:alice"}, out[registry.ChannelActivity])
	// The transient push channel only fans out to the member list.
	require.Equal(t, []string{"u:t:alice", "u:t:bob"}, out[registry.ChannelMessage])
}
