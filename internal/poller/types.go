// internal/poller/types.go
package poller

import "time"

// PollResult is the outcome of one poll cycle.
type PollResult struct {
	DeviceID string
	At       time.Time

	// Requests is the number of read requests in the batch.
	Requests int
	Bytes    int

	Err error // non-nil means the batch write failed
}
