package types

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Sentinel input errors. These guard handler inputs and are mapped to rich
// errors at package edges.
var (
	ErrActorRequired   = errors.New("go-meetings: actor required")
	ErrMeetingRequired = errors.New("go-meetings: meeting required")
	ErrMessageRequired = errors.New("go-meetings: message required")
	ErrBusRequired     = errors.New("go-meetings: activity bus required")
)

// NewNotFound builds the not-found error for a missing subject resource or
// parent. No activity is emitted when it is returned.
func NewNotFound(what, id string) error {
	return goerrors.New(what+" not found: "+id, goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"resource_id": id})
}

// NewServiceError wraps an external dependency failure. The pass is
// aborted and no partial seeds are posted.
func NewServiceError(service string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "go-meetings: "+service+" failed").
		WithCode(goerrors.CodeInternal).
		WithMetadata(map[string]any{"service": service})
}

// NewConfigurationError reports an invalid engine configuration. It is
// fatal at startup and never recovered at runtime.
func NewConfigurationError(msg string) error {
	return goerrors.New("go-meetings: "+msg, goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest)
}

// NewCycleError reports an association dependency cycle detected during
// resolution. The chain names the associations in resolution order, the
// last entry being the one that closed the cycle.
func NewCycleError(chain []string) error {
	return goerrors.New("go-meetings: association dependency cycle: "+strings.Join(chain, " -> "),
		goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"association_chain": chain, "cycle": true})
}

// IsNotFound reports whether err is a not-found taxonomy member.
func IsNotFound(err error) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryNotFound
	}
	return false
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == goerrors.CategoryValidation && !metadataCycle(rich)
}

// IsCycle reports whether err carries an association dependency cycle.
func IsCycle(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return metadataCycle(rich)
}

func metadataCycle(rich *goerrors.Error) bool {
	if rich == nil || rich.Metadata == nil {
		return false
	}
	flagged, ok := rich.Metadata["cycle"].(bool)
	return ok && flagged
}
