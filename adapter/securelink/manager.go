package securelink

import (
	"errors"
	"time"

	"github.com/goliatone/go-meetings/pkg/types"
	urlkit "github.com/goliatone/go-urlkit/securelink"
)

// Manager adapts a go-urlkit securelink manager to the
// types.SecureLinkManager port the service mints expiring meeting
// profile links through.
type Manager struct {
	inner urlkit.Manager
}

// NewManager builds the adapter from a host-supplied configurator. The
// configurator's route table must map every route the service generates
// links for.
func NewManager(cfg types.SecureLinkConfigurator) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("securelink configurator required")
	}
	inner, err := urlkit.NewManagerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{inner: inner}, nil
}

// WrapManager adapts a go-urlkit manager the host already built, for
// hosts that share one signing key across services.
func WrapManager(inner urlkit.Manager) *Manager {
	if inner == nil {
		return nil
	}
	return &Manager{inner: inner}
}

// Generate implements types.SecureLinkManager.
func (m *Manager) Generate(route string, payloads ...types.SecureLinkPayload) (string, error) {
	if m == nil || m.inner == nil {
		return "", errors.New("securelink manager not configured")
	}
	return m.inner.Generate(route, toPayloads(payloads)...)
}

// Validate implements types.SecureLinkManager.
func (m *Manager) Validate(token string) (map[string]any, error) {
	if m == nil || m.inner == nil {
		return nil, errors.New("securelink manager not configured")
	}
	return m.inner.Validate(token)
}

// GetAndValidate implements types.SecureLinkManager.
func (m *Manager) GetAndValidate(fn func(string) string) (types.SecureLinkPayload, error) {
	if m == nil || m.inner == nil {
		return nil, errors.New("securelink manager not configured")
	}
	payload, err := m.inner.GetAndValidate(fn)
	if err != nil {
		return nil, err
	}
	return types.SecureLinkPayload(payload), nil
}

// GetExpiration implements types.SecureLinkManager.
func (m *Manager) GetExpiration() time.Duration {
	if m == nil || m.inner == nil {
		return 0
	}
	return m.inner.GetExpiration()
}

func toPayloads(payloads []types.SecureLinkPayload) []urlkit.Payload {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]urlkit.Payload, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, urlkit.Payload(payload))
	}
	return out
}
