// Package telemetry embeds the telemetry service's SQL migration files for
// use at runtime, regardless of working directory.
package telemetry

import "embed"

// FS is the embedded migrations filesystem for the telemetry service.
//
//go:embed *.sql
var FS embed.FS
