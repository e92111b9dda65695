package migrations

import (
	"io/fs"

	meetings "github.com/goliatone/go-meetings"
)

func init() {
	coreFS, err := fs.Sub(meetings.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
