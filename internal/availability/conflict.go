package availability

import "time"

// FindConflict scans the existing non-cancelled intervals and returns
// the first one that overlaps the proposed [start, end) window, or nil
// when the window is free.  The interval whose ID equals excludeID is
// skipped, which lets an edited reservation be re-submitted without
// conflicting with its own prior occupancy.  Pass excludeID 0 on create.
//
// This scan is advisory: two requests racing through it can both pass,
// so the storage layer's own conflict re-check remains the final
// arbiter.  A storage rejection must be treated as authoritative.
func FindConflict(start, end time.Time, excludeID uint64, existing []Interval) *Interval {
	for i := range existing {
		if excludeID != 0 && existing[i].ID == excludeID {
			continue
		}
		if Overlaps(start, end, existing[i].Start, existing[i].End) {
			return &existing[i]
		}
	}
	return nil
}
