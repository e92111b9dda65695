package meetings

import (
	"embed"

	"github.com/goliatone/go-meetings/service"
)

// Re-export the service package entry point so consumers can do
// `meetings.New(...)` without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
)

// ProfileLinkRoute is the securelink route signed meeting profile links
// are generated against. Hosts map it in their securelink configurator.
const ProfileLinkRoute = service.ProfileLinkRoute

// New constructs the go-meetings runtime using the provided configuration.
func New(cfg Config) (*Service, error) {
	return service.New(cfg)
}

// MigrationsFS contains the SQL migrations for the default Bun-backed
// directory store. Root files target PostgreSQL; SQLite overrides live
// under data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS exposes the migration files so host applications can
// register them with their migration runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
