package classify

import (
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// Metadata selects the activity variant for a metadata update. A
// visibility flip gets the dedicated visibility-change type; every other
// profile change gets the generic update type. Exactly one of the two is
// ever selected for a single update.
func Metadata(old, updated types.Meeting) (string, types.Verb) {
	if old.Visibility != updated.Visibility {
		return registry.ActivityMeetingUpdateVisibility, types.VerbUpdate
	}
	return registry.ActivityMeetingUpdate, types.VerbUpdate
}
