package migrations

import "embed"

// FS contains the embedded SQL migrations for the bookmarks database.
//
//go:embed *.sql
var FS embed.FS
