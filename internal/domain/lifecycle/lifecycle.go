// Package lifecycle holds shared timeouts for starting and stopping components.
package lifecycle

import "time"

// DefaultTimeout bounds OnStart/OnStop hooks such as pinging the database or draining servers.
const DefaultTimeout = 10 * time.Second
