package registry

import (
	"sort"
	"strings"

	"github.com/goliatone/go-meetings/pkg/types"
)

// Channel names one delivery surface with its own recipient routing.
type Channel string

const (
	// ChannelActivity is the live activity feed.
	ChannelActivity Channel = "activity"
	// ChannelNotification is the in-app notification stream.
	ChannelNotification Channel = "notification"
	// ChannelEmail is the email digest stream.
	ChannelEmail Channel = "email"
	// ChannelMessage is the transient push stream used only for ephemeral
	// live delivery. It is never persisted or aggregated.
	ChannelMessage Channel = "message"
)

// Transient reports whether deliveries on the channel are ephemeral.
func (c Channel) Transient() bool { return c == ChannelMessage }

// EntityRole names the position a resource occupies in an activity.
type EntityRole string

const (
	RoleActor  EntityRole = "actor"
	RoleObject EntityRole = "object"
	RoleTarget EntityRole = "target"
)

// GroupKey is one partial-match rule over the actor/object/target fields.
// Two activities of the same type collapse into one rendered item when
// every field the rule lists matches between them.
type GroupKey struct {
	Actor  bool
	Object bool
	Target bool
}

// StreamSpec declares, per entity role, the ordered association names whose
// union forms the channel's recipient set.
type StreamSpec struct {
	Router map[EntityRole][]string
}

// ActivityType is the full declarative record for one activity type.
type ActivityType struct {
	Name    string
	GroupBy []GroupKey
	Streams map[Channel]StreamSpec
}

// Registry stores activity type declarations. Register all types during
// process initialization and call Validate before serving; the registry is
// not safe for concurrent mutation but reads never mutate.
type Registry struct {
	specs map[string]ActivityType
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{specs: make(map[string]ActivityType)}
}

// Register adds an activity type declaration. Registering the same name
// twice is a configuration error.
func (r *Registry) Register(spec ActivityType) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return types.NewConfigurationError("activity type name required")
	}
	if _, exists := r.specs[name]; exists {
		return types.NewConfigurationError("activity type already registered: " + name)
	}
	for channel, stream := range spec.Streams {
		for role := range stream.Router {
			switch role {
			case RoleActor, RoleObject, RoleTarget:
			default:
				return types.NewConfigurationError(
					"activity type " + name + " routes unknown role " + string(role) +
						" on channel " + string(channel))
			}
		}
	}
	spec.Name = name
	r.specs[name] = spec
	return nil
}

// Get returns the declaration for the named activity type.
func (r *Registry) Get(name string) (ActivityType, error) {
	spec, ok := r.specs[name]
	if !ok {
		return ActivityType{}, types.NewNotFound("activity type", name)
	}
	return spec, nil
}

// Types lists the registered activity type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CanGroup reports whether two activities of the named type collapse into
// one rendered item. Grouping rules are evaluated in declaration order and
// the first rule whose listed fields all match wins. Types without
// grouping keys never collapse.
func (r *Registry) CanGroup(name string, a, b types.ActivitySeed) (bool, error) {
	spec, err := r.Get(name)
	if err != nil {
		return false, err
	}
	if a.ActivityType != name || b.ActivityType != name {
		return false, nil
	}
	for _, key := range spec.GroupBy {
		if key.matches(a, b) {
			return true, nil
		}
	}
	return false, nil
}

func (k GroupKey) matches(a, b types.ActivitySeed) bool {
	if !k.Actor && !k.Object && !k.Target {
		return false
	}
	if k.Actor && a.Actor.ResourceID != b.Actor.ResourceID {
		return false
	}
	if k.Object && a.Object.ResourceID != b.Object.ResourceID {
		return false
	}
	if k.Target {
		if a.Target == nil || b.Target == nil {
			return false
		}
		if a.Target.ResourceID != b.Target.ResourceID {
			return false
		}
	}
	return true
}

// AssociationChecker reports whether an association name is registered for
// the entity type occupying a routed role.
type AssociationChecker func(role EntityRole, association string) bool

// Validate checks every routed association name against the checker.
// A routing reference to an unregistered association is a configuration
// error, raised at startup rather than during a pass.
func (r *Registry) Validate(known AssociationChecker) error {
	if known == nil {
		return types.NewConfigurationError("association checker required")
	}
	for _, name := range r.Types() {
		spec := r.specs[name]
		for channel, stream := range spec.Streams {
			for role, associations := range stream.Router {
				for _, association := range associations {
					if !known(role, association) {
						return types.NewConfigurationError(
							"activity type " + name + " channel " + string(channel) +
								" routes unregistered association " + association +
								" for role " + string(role))
					}
				}
			}
		}
	}
	return nil
}
