// Package migrations embeds the versioned schema files so the server and CLI
// can migrate without shipping the directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
