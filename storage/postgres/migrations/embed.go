package migrations

import "embed"

// FS contains the embedded Postgres schema for the attendance session.
//
//go:embed *.sql
var FS embed.FS
