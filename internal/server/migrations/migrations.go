// Package migrations embeds the goose schema migrations, one directory per
// SQL dialect.
package migrations

import "embed"

// Migrations holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directory names inside Migrations.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
