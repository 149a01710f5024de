// Package migrations embeds the SQL migration files into the binary so the
// service can migrate its schema without the files on disk.
package migrations

import (
	"embed"

	"github.com/brumelab/brume-core/internal/infrastructure/database"
)

//go:embed *.up.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
