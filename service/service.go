package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-meetings/association"
	"github.com/goliatone/go-meetings/classify"
	"github.com/goliatone/go-meetings/command"
	"github.com/goliatone/go-meetings/config"
	"github.com/goliatone/go-meetings/entity"
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// Service is the entry point for go-meetings. It wires the activity type
// registry, the association registrar, the entity producers, and the
// command facade around the host-provided ports.
type Service struct {
	cfg          Config
	commands     Commands
	registry     *registry.Registry
	associations *association.Registrar
	entities     map[string]entity.Type
	settings     *config.Resolver
}

// Commands exposes the event handlers the host dispatches domain events
// through.
type Commands struct {
	MeetingCreated *command.MeetingCreatedCommand
	MeetingUpdated *command.MeetingUpdatedCommand
	MeetingDeleted *command.MeetingDeletedCommand
	MembersUpdated *command.MeetingMembersUpdatedCommand
	MessageCreated *command.MessageCreatedCommand
}

// Config captures the ports the engine depends on. Bus, Membership, and
// Directory are required; the rest default to safe implementations.
type Config struct {
	Bus           types.ActivityBus
	Membership    types.MembershipService
	Directory     types.ResourceDirectory
	Contributions types.ContributionTracker
	URLs          types.TenantURLResolver
	Overrides     config.TenantOverrideSource
	Gate          featuregate.FeatureGate
	Links         types.SecureLinkManager
	Sanitizer     *entity.Sanitizer
	Clock         types.Clock
	IDGenerator   types.IDGenerator
	Logger        types.Logger
}

// New constructs a Service from the supplied configuration. Registration
// and routing validation happen here, so a misconfigured deployment fails
// at startup rather than mid-pass.
func New(cfg Config) (*Service, error) {
	norm := normalizeConfig(cfg)
	switch {
	case norm.Bus == nil:
		return nil, types.ErrBusRequired
	case norm.Membership == nil:
		return nil, types.NewConfigurationError("membership service required")
	case norm.Directory == nil:
		return nil, types.NewConfigurationError("resource directory required")
	}
	if norm.Contributions == nil {
		if tracker, ok := norm.Directory.(types.ContributionTracker); ok {
			norm.Contributions = tracker
		} else {
			return nil, types.NewConfigurationError("contribution tracker required")
		}
	}

	reg := registry.New()
	if err := registry.RegisterMeetingActivityTypes(reg); err != nil {
		return nil, err
	}

	registrar := association.NewRegistrar()
	if err := association.RegisterMeetingAssociations(registrar, norm.Membership, norm.Contributions); err != nil {
		return nil, err
	}
	if err := reg.Validate(func(_ registry.EntityRole, name string) bool {
		return registrar.Known(name)
	}); err != nil {
		return nil, err
	}

	sanitizer := norm.Sanitizer
	if sanitizer == nil {
		sanitizer = entity.NewSanitizer(entity.SanitizerConfig{})
	}
	meetingType, err := entity.NewMeetingType(entity.MeetingTypeConfig{
		Directory: norm.Directory,
		URLs:      norm.URLs,
		Sanitizer: sanitizer,
	})
	if err != nil {
		return nil, err
	}
	messageType, err := entity.NewMessageType(entity.MessageTypeConfig{
		Directory: norm.Directory,
		URLs:      norm.URLs,
		Sanitizer: sanitizer,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:          norm,
		registry:     reg,
		associations: registrar,
		entities: map[string]entity.Type{
			meetingType.Kind(): meetingType,
			messageType.Kind(): messageType,
		},
		settings: config.NewResolver(config.ResolverConfig{Overrides: norm.Overrides}),
	}
	commands, err := s.buildCommands()
	if err != nil {
		return nil, err
	}
	s.commands = commands
	return s, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.URLs == nil {
		cfg.URLs = hostURLResolver{}
	}
	return cfg
}

// hostURLResolver derives a tenant base URL from the tenant host. It is
// the fallback when the host application supplies no resolver.
type hostURLResolver struct{}

func (hostURLResolver) BaseURL(tenant types.Tenant) string {
	if tenant.Host == "" {
		return ""
	}
	return "https://" + tenant.Host
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Registry returns the activity type registry.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Associations returns the association registrar. Hosts extend it with
// their own resolvers before the first event is dispatched.
func (s *Service) Associations() *association.Registrar {
	return s.associations
}

// Entity returns the producer/transformer for an entity kind.
func (s *Service) Entity(kind string) (entity.Type, error) {
	t, ok := s.entities[kind]
	if !ok {
		return nil, types.NewNotFound("entity type", kind)
	}
	return t, nil
}

// Settings returns the tenant configuration resolver.
func (s *Service) Settings() *config.Resolver {
	return s.settings
}

// Recipients resolves one seed's routed entities into per-channel
// delivery lists. Each role present on the seed gets its own resolver
// context; the contexts are closed when the call returns.
func (s *Service) Recipients(ctx context.Context, activityType string, seed types.ActivitySeed) (map[registry.Channel][]string, error) {
	spec, err := s.registry.Get(activityType)
	if err != nil {
		return nil, err
	}

	contexts := make(map[registry.EntityRole]*association.Context)
	defer func() {
		for _, rc := range contexts {
			rc.Close()
		}
	}()

	refs := map[registry.EntityRole]*types.ResourceRef{
		registry.RoleActor:  &seed.Actor,
		registry.RoleObject: &seed.Object,
		registry.RoleTarget: seed.Target,
	}
	for role, ref := range refs {
		if ref == nil || ref.ResourceID == "" {
			continue
		}
		producer, ok := s.entities[ref.ResourceType]
		var ent types.ActivityEntity
		if ok {
			ent, err = producer.Produce(ctx, *ref)
			if err != nil {
				return nil, err
			}
		} else {
			// Principals have no producer; routing only needs the id.
			ent = types.ActivityEntity{
				EntityType: ref.ResourceType,
				EntityID:   ref.ResourceID,
			}
		}
		contexts[role] = s.associations.NewContext(ctx, ent)
	}

	return association.Recipients(ctx, spec, contexts)
}

func (s *Service) buildCommands() (Commands, error) {
	classifier, err := classify.NewMemberClassifier(classify.MemberClassifierConfig{
		Membership: s.cfg.Membership,
	})
	if err != nil {
		return Commands{}, err
	}
	return Commands{
		MeetingCreated: command.NewMeetingCreatedCommand(command.MeetingCreatedCommandConfig{
			Bus:    s.cfg.Bus,
			Clock:  s.cfg.Clock,
			Gate:   s.cfg.Gate,
			Logger: s.cfg.Logger,
		}),
		MeetingUpdated: command.NewMeetingUpdatedCommand(command.MeetingUpdatedCommandConfig{
			Bus:    s.cfg.Bus,
			Clock:  s.cfg.Clock,
			Gate:   s.cfg.Gate,
			Logger: s.cfg.Logger,
		}),
		MeetingDeleted: command.NewMeetingDeletedCommand(command.MeetingDeletedCommandConfig{
			Logger: s.cfg.Logger,
		}),
		MembersUpdated: command.NewMeetingMembersUpdatedCommand(command.MeetingMembersUpdatedCommandConfig{
			Bus:        s.cfg.Bus,
			Classifier: classifier,
			Clock:      s.cfg.Clock,
			Gate:       s.cfg.Gate,
			Logger:     s.cfg.Logger,
		}),
		MessageCreated: command.NewMessageCreatedCommand(command.MessageCreatedCommandConfig{
			Bus:    s.cfg.Bus,
			Clock:  s.cfg.Clock,
			Gate:   s.cfg.Gate,
			Logger: s.cfg.Logger,
		}),
	}, nil
}
