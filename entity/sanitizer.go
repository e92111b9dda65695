package entity

import (
	"sync"

	"github.com/goliatone/go-masker"
)

// SanitizerConfig controls the masker used for internal payload
// sanitization.
type SanitizerConfig struct {
	Masker *masker.Masker
}

// Sanitizer masks denylisted fields in internal transformer output so
// sensitive values never reach same-process consumers.
type Sanitizer struct {
	masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a masker configured with the meeting denylist.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// NewSanitizer constructs a sanitizer, defaulting to the shared masker.
func NewSanitizer(cfg SanitizerConfig) *Sanitizer {
	mask := cfg.Masker
	if mask == nil {
		mask = DefaultMasker()
	}
	return &Sanitizer{masker: mask}
}

// Sanitize masks sensitive values in the payload. On masking failure the
// payload is dropped entirely rather than leaked.
func (s *Sanitizer) Sanitize(payload map[string]any) map[string]any {
	if len(payload) == 0 {
		return map[string]any{}
	}
	if s == nil || s.masker == nil {
		return map[string]any{}
	}
	masked, err := s.masker.Mask(clonePayload(payload))
	if err != nil {
		return map[string]any{}
	}
	if out, ok := masked.(map[string]any); ok {
		return out
	}
	return map[string]any{}
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("signature", "filled4")
	mask.RegisterMaskField("secret", "filled4")
}

func clonePayload(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
