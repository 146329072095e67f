package postgres

import "embed"

// MigrationsFS holds the SQL migration files applied by goose at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
