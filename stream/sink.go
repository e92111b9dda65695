package stream

import (
	"context"
	"sync"

	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// RecipientResolver resolves one seed into per-channel recipient lists.
// *service.Service satisfies it.
type RecipientResolver interface {
	Recipients(ctx context.Context, activityType string, seed types.ActivitySeed) (map[registry.Channel][]string, error)
}

// SinkConfig wires the persisting activity bus.
type SinkConfig struct {
	Store    *Store
	Resolver RecipientResolver
	Logger   types.Logger
}

// Sink is an ActivityBus that routes each seed and persists one stream row
// per recipient/channel. Transient channels are resolved but never stored.
//
// The sink and the engine reference each other: the engine posts seeds to
// the bus, the sink routes them through the engine. Construct the sink
// first, hand it to the engine config, then Bind the engine.
type Sink struct {
	store  *Store
	logger types.Logger

	mu       sync.RWMutex
	resolver RecipientResolver
}

var _ types.ActivityBus = (*Sink)(nil)

// NewSink constructs the sink. Resolver may be nil at construction time;
// it must be bound before the first seed is posted.
func NewSink(cfg SinkConfig) (*Sink, error) {
	if cfg.Store == nil {
		return nil, types.NewConfigurationError("stream sink requires a store")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Sink{store: cfg.Store, resolver: cfg.Resolver, logger: logger}, nil
}

// Bind attaches the recipient resolver after construction.
func (s *Sink) Bind(resolver RecipientResolver) {
	s.mu.Lock()
	s.resolver = resolver
	s.mu.Unlock()
}

// PostSeed implements types.ActivityBus.
func (s *Sink) PostSeed(ctx context.Context, _ types.Actor, seed types.ActivitySeed) error {
	s.mu.RLock()
	resolver := s.resolver
	s.mu.RUnlock()
	if resolver == nil {
		return types.NewConfigurationError("stream sink has no recipient resolver bound")
	}
	routed, err := resolver.Recipients(ctx, seed.ActivityType, seed)
	if err != nil {
		return err
	}
	var deliveries []Delivery
	for channel, recipients := range routed {
		if channel.Transient() {
			continue
		}
		for _, recipient := range recipients {
			deliveries = append(deliveries, Delivery{RecipientID: recipient, Channel: channel})
		}
	}
	if len(deliveries) == 0 {
		s.logger.Debug("seed routed to no persistent stream", "activityType", seed.ActivityType)
		return nil
	}
	return s.store.Deliver(ctx, seed, deliveries)
}
