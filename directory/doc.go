// Package directory provides the default Bun-backed storage for meetings
// and meeting messages. It satisfies the ResourceDirectory and
// ContributionTracker contracts consumed by the entity producers and the
// association resolvers; hosts that keep meetings elsewhere implement
// those contracts directly and skip this package.
package directory
