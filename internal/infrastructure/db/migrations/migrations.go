// Package migrations embeds the goose schema migrations, one directory per
// supported engine.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
