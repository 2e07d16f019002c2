package migrate

import "embed"

const embeddedRoot = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS
