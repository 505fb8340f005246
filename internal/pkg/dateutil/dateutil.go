// Package dateutil handles the millisecond Unix timestamps used across
// every stored document.
package dateutil

import "time"

// NowMillis returns the current Unix timestamp in milliseconds.
func NowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// Millis returns the Unix millisecond timestamp at now+delta.
func Millis(delta time.Duration) int64 {
	return time.Now().UTC().Add(delta).UnixMilli()
}

// HasExpired reports whether a millisecond expiry timestamp has passed.
func HasExpired(expiry int64) bool {
	return expiry <= NowMillis()
}
