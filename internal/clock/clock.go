// Package clock is the time source for queue and progress timestamps.
package clock

import "time"

// NowFunc is replaced in tests to freeze time.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }
