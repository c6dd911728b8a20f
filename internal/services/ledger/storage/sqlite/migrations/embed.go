package migrations

import "embed"

// FS contains embedded SQLite migrations for ledger journal storage.
//
//go:embed *.sql
var FS embed.FS
