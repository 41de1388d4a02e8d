// Package availability implements the booking core: generating free time
// slots from weekly availability rules and detecting conflicts between
// reservation intervals.  All functions are pure and operate on data the
// repository layer has already fetched; nothing in this package touches
// the database.
package availability

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant.  The three clauses cover:
// a's start falling inside b, a's end falling inside b, and a fully
// containing b.  Touching endpoints are not a conflict: a slot ending
// exactly when a reservation starts (or starting exactly when one ends)
// is free.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(bStart) && aStart.Before(bEnd) {
		return true
	}
	if aEnd.After(bStart) && !aEnd.After(bEnd) {
		return true
	}
	if !aStart.After(bStart) && !aEnd.Before(bEnd) {
		return true
	}
	return false
}
