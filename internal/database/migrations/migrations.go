// Package migrations embeds the versioned schema of the application.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
