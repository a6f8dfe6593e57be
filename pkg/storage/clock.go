package storage

import "time"

// Clock supplies the current time to CURRENT_DATE/CURRENT_TIME/
// CURRENT_TIMESTAMP/NOW(). The executor calls Now() once per INSERT/UPDATE/
// DELETE and once per SELECT body, and threads the result through the
// evaluator environment rather than letting evaluator code call time.Now()
// directly. A subquery run against an enclosing row reuses that row's
// instant; a SELECT body with no enclosing row (a top-level SELECT, each of
// its compound branches, and its CTE, view and FROM-subquery bodies) calls
// Now() itself.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
