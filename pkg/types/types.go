package types

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verb identifies the action an activity describes, following the
// activitystrea.ms vocabulary subset the engine emits.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbShare  Verb = "share"
	VerbAdd    Verb = "add"
	VerbPost   Verb = "post"
)

// Visibility controls who may see a meeting and the activities derived
// from it.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityLoggedIn Visibility = "loggedin"
	VisibilityPrivate  Visibility = "private"
)

// AllVisibilities lists the accepted visibility values.
var AllVisibilities = []Visibility{VisibilityPublic, VisibilityLoggedIn, VisibilityPrivate}

// ValidVisibility reports whether the value is one of the known settings.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityLoggedIn, VisibilityPrivate:
		return true
	}
	return false
}

// Role names for meeting members. Order in AllRolePriority determines the
// effective role when a principal holds several.
const (
	RoleMember  = "member"
	RoleManager = "manager"
)

// AllRolePriority lists all known roles, lowest priority first.
var AllRolePriority = []string{RoleMember, RoleManager}

// ValidRole reports whether the role is one of the known meeting roles.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleManager
}

// Resource type names used in refs, entities, and seeds.
const (
	ResourceTypeUser    = "user"
	ResourceTypeGroup   = "group"
	ResourceTypeMeeting = "meeting"
	ResourceTypeMessage = "message"
)

// Built-in association names shared by the registry declarations and the
// association resolvers.
const (
	AssociationSelf                = "self"
	AssociationMembersByRole       = "members-by-role"
	AssociationMembers             = "members"
	AssociationManagers            = "managers"
	AssociationMessageContributors = "message-contributors"
)

// Keys used in ResourceRef inline data and ActivityEntity payloads.
const (
	InlineKeyMeeting   = "meeting"
	InlineKeyMessage   = "message"
	InlineKeyMeetingID = "meetingId"
)

// ResourceRef points at a resource participating in an activity. InlineData
// is a cache hint: when the event producer already holds the full resource
// it can attach it under the resource type key so later entity production
// skips the directory round-trip. The canonical record is always the one
// fetchable by id; inline data is never authoritative.
type ResourceRef struct {
	ResourceType string
	ResourceID   string
	InlineData   map[string]any
}

// NewResourceRef builds a ref without inline data.
func NewResourceRef(resourceType, resourceID string) ResourceRef {
	return ResourceRef{ResourceType: resourceType, ResourceID: resourceID}
}

// WithInline attaches inline data under the given key, returning a copy.
func (r ResourceRef) WithInline(key string, value any) ResourceRef {
	data := make(map[string]any, len(r.InlineData)+1)
	for k, v := range r.InlineData {
		data[k] = v
	}
	data[key] = value
	r.InlineData = data
	return r
}

// Inline returns the inline payload stored under key, or nil.
func (r ResourceRef) Inline(key string) any {
	if len(r.InlineData) == 0 {
		return nil
	}
	return r.InlineData[key]
}

// ActivitySeed is the minimal tuple submitted to the activity bus before
// grouping, routing, and rendering. Seeds are immutable once constructed;
// one is produced per decision and consumed exactly once by the bus.
type ActivitySeed struct {
	ActivityType    string
	TimestampMillis int64
	Verb            Verb
	Actor           ResourceRef
	Object          ResourceRef
	Target          *ResourceRef
}

// NewActivitySeed builds a seed without a target.
func NewActivitySeed(activityType string, millis int64, verb Verb, actor, object ResourceRef) ActivitySeed {
	return ActivitySeed{
		ActivityType:    activityType,
		TimestampMillis: millis,
		Verb:            verb,
		Actor:           actor,
		Object:          object,
	}
}

// NewTargetedActivitySeed builds a seed carrying a target resource.
func NewTargetedActivitySeed(activityType string, millis int64, verb Verb, actor, object, target ResourceRef) ActivitySeed {
	seed := NewActivitySeed(activityType, millis, verb, actor, object)
	seed.Target = &target
	return seed
}

// ActivityEntity is the persistent representation of a resource stored and
// cached by the activity bus. EntityID for the canonical self representation
// is the resource id, not a globally unique URL.
type ActivityEntity struct {
	EntityType string
	EntityID   string
	Visibility Visibility
	Payload    map[string]any
}

// DisplayEntity is the public, display-ready representation produced by the
// public transformer.
type DisplayEntity struct {
	EntityType  string
	GlobalID    string
	DisplayName string
	URL         string
	ProfilePath string
	Visibility  Visibility
}

// MemberRole pairs a principal with the role it holds after a change.
type MemberRole struct {
	PrincipalID string
	Role        string
}

// MemberChangeInfo is a pure diff between two role snapshots keyed by
// principal id. A principal appears in exactly one of Added, Updated, or
// Removed.
type MemberChangeInfo struct {
	Added   []MemberRole
	Updated []MemberRole
	Removed []string
}

// Empty reports whether the diff carries no changes at all.
func (m MemberChangeInfo) Empty() bool {
	return len(m.Added) == 0 && len(m.Updated) == 0 && len(m.Removed) == 0
}

// DiffMemberRoles computes the member change between two role snapshots.
// Iteration order is deterministic: principals are visited in the sorted
// order of their ids so downstream decision emission is reproducible.
func DiffMemberRoles(before, after map[string]string) MemberChangeInfo {
	var info MemberChangeInfo
	for _, id := range sortedKeys(after) {
		role := after[id]
		old, ok := before[id]
		switch {
		case !ok:
			info.Added = append(info.Added, MemberRole{PrincipalID: id, Role: role})
		case old != role:
			info.Updated = append(info.Updated, MemberRole{PrincipalID: id, Role: role})
		}
	}
	for _, id := range sortedKeys(before) {
		if _, ok := after[id]; !ok {
			info.Removed = append(info.Removed, id)
		}
	}
	return info
}

// Meeting is the primary shared resource: a collaborative session carrying
// a visibility setting and a member list managed by the membership service.
type Meeting struct {
	ID           string
	TenantAlias  string
	CreatedBy    string
	DisplayName  string
	Description  string
	Chat         bool
	ContactList  bool
	Visibility   Visibility
	Created      int64
	LastModified int64
}

// Message is a sub-resource posted on a meeting. MeetingID is the parent
// meeting id; a message cannot be resolved to its parent by any other
// means, so events referencing a message must carry both ids.
type Message struct {
	ID        string
	MeetingID string
	CreatedBy string
	Body      string
	ThreadKey string
	Created   int64
}

// Tenant identifies the tenancy an actor operates in.
type Tenant struct {
	Alias string
	Host  string
}

// Actor is the per-request actor context handed to the bus and the public
// transformer: the authenticated user plus the tenant it operates in.
type Actor struct {
	UserID string
	Tenant Tenant
}

// Anonymous reports whether the actor carries no authenticated user.
func (a Actor) Anonymous() bool {
	return strings.TrimSpace(a.UserID) == ""
}

// ResourceID is a parsed tenant-qualified resource identifier of the form
// <type>:<tenantAlias>:<localId>.
type ResourceID struct {
	Type        string
	TenantAlias string
	LocalID     string
}

// ErrInvalidResourceID is returned when an id does not follow the
// <type>:<tenantAlias>:<localId> form.
var ErrInvalidResourceID = errors.New("go-meetings: invalid resource id")

// ParseResourceID splits a tenant-qualified resource id into its parts.
func ParseResourceID(id string) (ResourceID, error) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ResourceID{}, ErrInvalidResourceID
	}
	return ResourceID{Type: parts[0], TenantAlias: parts[1], LocalID: parts[2]}, nil
}

// FormatResourceID builds a tenant-qualified resource id.
func FormatResourceID(resourceType, tenantAlias, localID string) string {
	return resourceType + ":" + tenantAlias + ":" + localID
}

// IsPrincipalID reports whether the id names a user or group principal.
func IsPrincipalID(id string) bool {
	parsed, err := ParseResourceID(id)
	if err != nil {
		return false
	}
	return parsed.Type == "u" || parsed.Type == "g"
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock time.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

// UUID implements IDGenerator.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// Logger captures basic logging hooks used by the engine.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
