// Package timeouts defines shared timeout constants used by the commands.
package timeouts

import "time"

// Run caps a whole migration run when no -timeout is given.
const Run = 5 * time.Minute

// TelemetryShutdown limits how long a command waits for pending spans to
// flush before exiting.
const TelemetryShutdown = 5 * time.Second
