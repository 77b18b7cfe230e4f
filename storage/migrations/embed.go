package migrations

import "embed"

// FS contains the schema for the save store.
//
//go:embed *.sql
var FS embed.FS
