// Package migrations embeds the SQL scripts for the SQLite backend's table schema.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
