package availability

import "testing"

func TestFindConflictReturnsFirstHit(t *testing.T) {
	existing := []Interval{
		{ID: 1, Start: at(9, 0), End: at(9, 30)},
		{ID: 2, Start: at(10, 0), End: at(11, 0)},
		{ID: 3, Start: at(10, 30), End: at(11, 30)},
	}
	hit := FindConflict(at(10, 15), at(10, 45), 0, existing)
	if hit == nil || hit.ID != 2 {
		t.Fatalf("expected conflict with reservation 2, got %+v", hit)
	}
}

func TestFindConflictNoConflictWhenFree(t *testing.T) {
	existing := []Interval{
		{ID: 1, Start: at(9, 0), End: at(9, 30)},
	}
	// Adjacent on both sides: free.
	if hit := FindConflict(at(8, 30), at(9, 0), 0, existing); hit != nil {
		t.Fatalf("adjacent-before window must be free, got %+v", hit)
	}
	if hit := FindConflict(at(9, 30), at(10, 0), 0, existing); hit != nil {
		t.Fatalf("adjacent-after window must be free, got %+v", hit)
	}
}

func TestFindConflictExcludesOwnRecordOnEdit(t *testing.T) {
	existing := []Interval{
		{ID: 7, Start: at(14, 0), End: at(15, 0)},
	}
	// Re-submitting reservation 7 unchanged must not conflict with itself.
	if hit := FindConflict(at(14, 0), at(15, 0), 7, existing); hit != nil {
		t.Fatalf("edit must not conflict with the record's own interval, got %+v", hit)
	}
	// But another reservation in the same window still conflicts.
	existing = append(existing, Interval{ID: 8, Start: at(14, 30), End: at(15, 30)})
	hit := FindConflict(at(14, 0), at(15, 0), 7, existing)
	if hit == nil || hit.ID != 8 {
		t.Fatalf("expected conflict with reservation 8, got %+v", hit)
	}
}

func TestFindConflictCancelledAbsentFromInput(t *testing.T) {
	// Cancelled reservations are filtered out before this scan, so an
	// empty set over a previously cancelled window reports no conflict.
	if hit := FindConflict(at(9, 0), at(9, 30), 0, nil); hit != nil {
		t.Fatalf("no existing intervals must mean no conflict, got %+v", hit)
	}
}
