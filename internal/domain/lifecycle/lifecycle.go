// Package lifecycle holds values shared by components started and stopped by fx.
package lifecycle

import "time"

// DefaultTimeout bounds each start and stop hook.
const DefaultTimeout = 15 * time.Second
