// Package db holds the SQL migrations of the activity log.
package db

import "embed"

// MigrationsDir is the directory of Migrations that goose reads from.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
