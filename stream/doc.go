// Package stream provides a Bun-backed activity bus: routed seeds are
// persisted as per-recipient, per-channel stream entries and read back as
// cursor-paginated feeds. Hosts with their own delivery infrastructure can
// ignore it and supply any other types.ActivityBus.
package stream
