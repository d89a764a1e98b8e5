// Package migrations embeds the schema for the job queue, sync run and
// catalog tables.
package migrations

import "embed"

// FS holds the numbered up/down migrations. The store applies the up files
// in name order.
//
//go:embed *.sql
var FS embed.FS
