package migrations

import "embed"

// FS holds the SQL migrations of the detection archive.
//
//go:embed *.sql
var FS embed.FS
