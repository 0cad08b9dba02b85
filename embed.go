package modernblog

import "embed"

// migrationsFS holds the schema migrations NewStore applies on open.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
