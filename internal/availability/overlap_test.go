package availability

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestOverlapsAdjacentIntervalsDoNotConflict(t *testing.T) {
	// Slot [10:00,10:30) against reservation [10:30,11:00): touching
	// endpoints under half-open semantics are free.
	if Overlaps(at(10, 0), at(10, 30), at(10, 30), at(11, 0)) {
		t.Fatalf("slot ending at reservation start must not conflict")
	}
	// And the mirror: slot starting exactly where the reservation ends.
	if Overlaps(at(11, 0), at(11, 30), at(10, 30), at(11, 0)) {
		t.Fatalf("slot starting at reservation end must not conflict")
	}
}

func TestOverlapsPartialAndContained(t *testing.T) {
	// Slot [10:00,10:30) vs reservation [10:15,10:45): overlap.
	if !Overlaps(at(10, 0), at(10, 30), at(10, 15), at(10, 45)) {
		t.Fatalf("partially overlapping intervals must conflict")
	}
	// Slot fully inside the reservation.
	if !Overlaps(at(10, 0), at(10, 30), at(9, 0), at(12, 0)) {
		t.Fatalf("slot inside reservation must conflict")
	}
	// Slot fully containing the reservation.
	if !Overlaps(at(9, 0), at(12, 0), at(10, 0), at(10, 30)) {
		t.Fatalf("slot containing reservation must conflict")
	}
}

func TestOverlapsSelfAndSymmetry(t *testing.T) {
	a1, a2 := at(9, 0), at(9, 30)
	if !Overlaps(a1, a2, a1, a2) {
		t.Fatalf("a non-empty interval must overlap itself")
	}
	for s1 := 0; s1 < 120; s1 += 15 {
		for s2 := 0; s2 < 120; s2 += 15 {
			b1, b2 := at(9, 0).Add(time.Duration(s1)*time.Minute), at(9, 30).Add(time.Duration(s1)*time.Minute)
			c1, c2 := at(9, 0).Add(time.Duration(s2)*time.Minute), at(10, 0).Add(time.Duration(s2)*time.Minute)
			if Overlaps(b1, b2, c1, c2) != Overlaps(c1, c2, b1, b2) {
				t.Fatalf("overlap must be symmetric for offsets %d/%d", s1, s2)
			}
		}
	}
}

// TestOverlapsMatchesSimpleForm sweeps interval pairs on a minute grid
// and checks the three-clause predicate agrees with the plain
// intersection test aStart < bEnd && bStart < aEnd for every well-formed
// pair.  This pins the boundary behavior so the predicate could later be
// simplified without silently changing adjacency semantics.
func TestOverlapsMatchesSimpleForm(t *testing.T) {
	for aOff := 0; aOff <= 90; aOff += 5 {
		for aLen := 5; aLen <= 60; aLen += 5 {
			for bOff := 0; bOff <= 90; bOff += 5 {
				for bLen := 5; bLen <= 60; bLen += 5 {
					aS := at(8, aOff)
					aE := aS.Add(time.Duration(aLen) * time.Minute)
					bS := at(8, bOff)
					bE := bS.Add(time.Duration(bLen) * time.Minute)
					simple := aS.Before(bE) && bS.Before(aE)
					if got := Overlaps(aS, aE, bS, bE); got != simple {
						t.Fatalf("Overlaps(%v,%v,%v,%v)=%v, simple form says %v", aS, aE, bS, bE, got, simple)
					}
				}
			}
		}
	}
}
