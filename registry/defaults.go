package registry

import "github.com/goliatone/go-meetings/pkg/types"

// Activity type names emitted by the meeting engine.
const (
	ActivityMeetingCreate           = "meeting-create"
	ActivityMeetingShare            = "meeting-share"
	ActivityMeetingAddToLibrary     = "meeting-add-to-library"
	ActivityMeetingUpdateMemberRole = "meeting-update-member-role"
	ActivityMeetingUpdate           = "meeting-update"
	ActivityMeetingUpdateVisibility = "meeting-update-visibility"
	ActivityMeetingMessage          = "meeting-message"
)

// RegisterMeetingActivityTypes declares the meeting activity types. Call it
// once while building the engine; duplicate registration surfaces as a
// configuration error.
func RegisterMeetingActivityTypes(r *Registry) error {
	specs := []ActivityType{
		{
			Name:    ActivityMeetingCreate,
			GroupBy: []GroupKey{{Actor: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationSelf, types.AssociationMembers},
				}},
				ChannelNotification: {Router: map[EntityRole][]string{
					RoleObject: {types.AssociationMembers},
				}},
				ChannelEmail: {Router: map[EntityRole][]string{
					RoleObject: {types.AssociationMembers},
				}},
			},
		},
		{
			Name: ActivityMeetingShare,
			// "shared X with 5 users" and "shared 8 meetings with Y"
			GroupBy: []GroupKey{
				{Actor: true, Object: true},
				{Actor: true, Target: true},
			},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationManagers},
					RoleTarget: {types.AssociationSelf, types.AssociationMembers},
				}},
				ChannelNotification: {Router: map[EntityRole][]string{
					RoleTarget: {types.AssociationSelf},
				}},
				ChannelEmail: {Router: map[EntityRole][]string{
					RoleTarget: {types.AssociationSelf},
				}},
			},
		},
		{
			Name:    ActivityMeetingAddToLibrary,
			GroupBy: []GroupKey{{Actor: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationManagers},
				}},
			},
		},
		{
			Name:    ActivityMeetingUpdateMemberRole,
			GroupBy: []GroupKey{{Actor: true, Target: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationSelf, types.AssociationMembers},
					RoleTarget: {types.AssociationManagers},
				}},
			},
		},
		{
			Name:    ActivityMeetingUpdate,
			GroupBy: []GroupKey{{Actor: true, Object: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationSelf, types.AssociationMembers},
				}},
				ChannelNotification: {Router: map[EntityRole][]string{
					RoleObject: {types.AssociationManagers},
				}},
			},
		},
		{
			Name:    ActivityMeetingUpdateVisibility,
			GroupBy: []GroupKey{{Actor: true, Object: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleActor:  {types.AssociationSelf},
					RoleObject: {types.AssociationSelf, types.AssociationMembers},
				}},
				ChannelNotification: {Router: map[EntityRole][]string{
					RoleObject: {types.AssociationMembers},
				}},
			},
		},
		{
			Name:    ActivityMeetingMessage,
			GroupBy: []GroupKey{{Target: true}},
			Streams: map[Channel]StreamSpec{
				ChannelActivity: {Router: map[EntityRole][]string{
					RoleObject: {types.AssociationSelf},
					RoleTarget: {types.AssociationMessageContributors, types.AssociationMembers},
				}},
				ChannelNotification: {Router: map[EntityRole][]string{
					RoleTarget: {types.AssociationMessageContributors, types.AssociationMembers},
				}},
				ChannelEmail: {Router: map[EntityRole][]string{
					RoleTarget: {types.AssociationMessageContributors, types.AssociationMembers},
				}},
				// Ephemeral live delivery to everyone watching the meeting.
				ChannelMessage: {Router: map[EntityRole][]string{
					RoleTarget: {types.AssociationMembers},
				}},
			},
		},
	}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
