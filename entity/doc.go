// Package entity turns persisted resources into activity entity
// representations. Each entity kind (meeting, message) implements the Type
// capability: produce a persistent entity from a resource ref, transform
// persistent entities into public display entities or internal raw
// payloads, and declare how the entity propagates given its visibility.
// The set of kinds is closed; dispatch happens through the interface, not
// a runtime string registry.
package entity
