// Package registry holds the declarative per-activity-type metadata: which
// fields collapse multiple activities into one rendered item, and which
// named associations receive an activity on each delivery channel. The
// registry is built once during process initialization, validated against
// the association registrar, and read-only thereafter.
package registry
