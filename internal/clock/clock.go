// Package clock provides the production implementation of ports.Clock.
package clock

import "time"

// System is the ports.Clock backed by the real wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time { return time.Now() }
