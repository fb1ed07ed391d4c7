package appfs

import "embed"

// FS holds the SQL migrations.
//go:embed migrations
var FS embed.FS
