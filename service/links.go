package service

import "github.com/goliatone/go-meetings/pkg/types"

// ProfileLinkRoute is the securelink route used for signed meeting
// profile links. Hosts must map it in their securelink configurator.
const ProfileLinkRoute = "meeting.profile"

const profileLinkKey = "meeting"

// SignedProfileLink mints an expiring signed link to a meeting profile.
// Email recipients use it to open a private meeting without a session.
func (s *Service) SignedProfileLink(meetingID string) (string, error) {
	if s.cfg.Links == nil {
		return "", types.NewConfigurationError("secure link manager not configured")
	}
	if meetingID == "" {
		return "", types.NewConfigurationError("meeting id required")
	}
	return s.cfg.Links.Generate(ProfileLinkRoute, types.SecureLinkPayload{profileLinkKey: meetingID})
}

// ValidateProfileLink checks a signed profile token and returns the
// meeting id it grants access to.
func (s *Service) ValidateProfileLink(token string) (string, error) {
	if s.cfg.Links == nil {
		return "", types.NewConfigurationError("secure link manager not configured")
	}
	payload, err := s.cfg.Links.Validate(token)
	if err != nil {
		return "", err
	}
	id, _ := payload[profileLinkKey].(string)
	if id == "" {
		return "", types.NewConfigurationError("profile token missing meeting id")
	}
	return id, nil
}
