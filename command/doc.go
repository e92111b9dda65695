// Package command is the event dispatcher of the meeting activity engine.
// Each domain event (meeting created, updated, deleted, members changed,
// message created) is a go-command message with a dedicated handler that
// classifies the change, builds activity seeds, and posts them to the
// activity bus in deterministic order. Errors surface to the caller
// unmodified; retry policy belongs to the bus.
package command
