package offer

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// ResolveStatus derives an offer's effective status from its validity window.
// Pure and called on every read, so status is always consistent with the
// clock without a background job. validTo is inclusive through end of day in
// its own location; validFrom == validTo yields active for exactly that day.
func ResolveStatus(validFrom, validTo, now time.Time) Status {
	if now.Before(validFrom) {
		return StatusScheduled
	}
	if now.After(endOfDay(validTo)) {
		return StatusExpired
	}
	return StatusActive
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}
