package command

import (
	"errors"

	"github.com/goliatone/go-meetings/pkg/types"
)

var (
	// ErrActorRequired indicates an actor context was not supplied.
	ErrActorRequired = types.ErrActorRequired
	// ErrMeetingRequired indicates a meeting payload was not supplied.
	ErrMeetingRequired = types.ErrMeetingRequired
	// ErrMessageRequired indicates a message payload was not supplied.
	ErrMessageRequired = types.ErrMessageRequired
	// ErrBusRequired indicates the activity bus dependency is missing.
	ErrBusRequired = types.ErrBusRequired
	// ErrPreviousMeetingRequired indicates a metadata update event lacks
	// the pre-update snapshot.
	ErrPreviousMeetingRequired = errors.New("go-meetings: previous meeting snapshot required")
)
