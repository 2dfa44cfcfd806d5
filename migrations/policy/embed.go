// Package policy embeds the policy service's SQL migration files for use
// at runtime, regardless of working directory.
package policy

import "embed"

// FS is the embedded migrations filesystem for the policy service.
//
//go:embed *.sql
var FS embed.FS
