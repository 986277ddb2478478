package tokenstore

import "time"

// SetClock replaces the clock of an in-memory repo.
func (r *InMemoryRepo) SetClock(now func() time.Time) {
	r.now = now
}
