package migrations

import "embed"

// FS holds the SQL migrations read by the golang-migrate iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service expects.
const Version = 2
