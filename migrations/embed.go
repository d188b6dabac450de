// Package migrations embeds the schema for every supported database driver.
// Files live in a directory named after the driver.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
