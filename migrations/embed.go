// Package migrations embeds the SQL migrations so the server and the migrate
// CLI run the same files without shipping the directory.
package migrations

import "embed"

// FS holds every *.up.sql / *.down.sql pair of this directory
//
//go:embed *.sql
var FS embed.FS
