package availability

import (
	"testing"
	"time"
)

func weekdayRules() []Rule {
	return []Rule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
}

func daySpan(y int, m time.Month, d int) (time.Time, time.Time) {
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

func TestGenerateSlotsFullDayCoverage(t *testing.T) {
	// 2026-03-02 is a Monday.  A 09:00-17:00 rule with no reservations
	// yields exactly 16 contiguous 30-minute slots.
	start, end := daySpan(2026, 3, 2)
	slots := GenerateSlots(start, end, weekdayRules(), nil)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(start.Add(9 * time.Hour)) {
		t.Fatalf("first slot must start 09:00, got %s", slots[0].Start)
	}
	if !slots[len(slots)-1].End.Equal(start.Add(17 * time.Hour)) {
		t.Fatalf("last slot must end 17:00, got %s", slots[len(slots)-1].End)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.Equal(slots[i-1].End) {
			t.Fatalf("slots must be contiguous at index %d", i)
		}
		if slots[i].End.Sub(slots[i].Start) != SlotDuration {
			t.Fatalf("slot %d has wrong duration", i)
		}
	}
}

func TestGenerateSlotsSkipsOccupied(t *testing.T) {
	start, end := daySpan(2026, 3, 2)
	busy := []Interval{
		{ID: 1, Start: start.Add(10 * time.Hour), End: start.Add(11 * time.Hour)},
	}
	slots := GenerateSlots(start, end, weekdayRules(), busy)
	if len(slots) != 14 {
		t.Fatalf("expected 14 free slots, got %d", len(slots))
	}
	for _, s := range slots {
		if Overlaps(s.Start, s.End, busy[0].Start, busy[0].End) {
			t.Fatalf("emitted slot %s overlaps the reservation", s.Start)
		}
	}
	// The slot adjacent to the reservation end must still be free.
	found := false
	for _, s := range slots {
		if s.Start.Equal(start.Add(11 * time.Hour)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("slot starting at reservation end must remain free")
	}
}

func TestGenerateSlotsCancelledNeverBlocks(t *testing.T) {
	// The caller excludes cancelled reservations from the busy set, so a
	// cancelled booking at 09:00 simply is not passed in; the 09:00 slot
	// must come back free.
	start, end := daySpan(2026, 3, 2)
	slots := GenerateSlots(start, end, weekdayRules(), []Interval{})
	if len(slots) == 0 || !slots[0].Start.Equal(start.Add(9*time.Hour)) {
		t.Fatalf("09:00 slot must be free when only a cancelled reservation occupied it")
	}
}

func TestGenerateSlotsDayWithoutRule(t *testing.T) {
	// 2026-03-01 is a Sunday; the rule set covers Monday and Tuesday only.
	start, end := daySpan(2026, 3, 1)
	if slots := GenerateSlots(start, end, weekdayRules(), nil); len(slots) != 0 {
		t.Fatalf("day without an enabled rule must yield no slots, got %d", len(slots))
	}
	// A disabled rule behaves the same as no rule.
	off := []Rule{{DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00", IsAvailable: false}}
	if slots := GenerateSlots(start, end, off, nil); len(slots) != 0 {
		t.Fatalf("disabled rule must yield no slots")
	}
}

func TestGenerateSlotsMalformedRuleSkipped(t *testing.T) {
	start, end := daySpan(2026, 3, 2)
	bad := []Rule{{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", IsAvailable: true}}
	if slots := GenerateSlots(start, end, bad, nil); len(slots) != 0 {
		t.Fatalf("rule with open >= close must be skipped")
	}
	garbled := []Rule{{DayOfWeek: 1, StartTime: "late", EndTime: "later", IsAvailable: true}}
	if slots := GenerateSlots(start, end, garbled, nil); len(slots) != 0 {
		t.Fatalf("unparseable rule times must be skipped")
	}
}

func TestGenerateSlotsMultiDayWalk(t *testing.T) {
	// Monday through Wednesday; rules cover Monday and Tuesday, so two
	// full days of slots in chronological order.
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)
	slots := GenerateSlots(start, end, weekdayRules(), nil)
	if len(slots) != 32 {
		t.Fatalf("expected 32 slots over two rule-covered days, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start.Before(slots[i-1].Start) {
			t.Fatalf("slots must be in chronological order at index %d", i)
		}
	}
	// First Tuesday slot starts at 09:00 on day two.
	if !slots[16].Start.Equal(start.AddDate(0, 0, 1).Add(9 * time.Hour)) {
		t.Fatalf("Tuesday slots must start at 09:00, got %s", slots[16].Start)
	}
}

func TestGenerateSlotsUsesFirstMatchingRule(t *testing.T) {
	start, end := daySpan(2026, 3, 2)
	rules := []Rule{
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
	slots := GenerateSlots(start, end, rules, nil)
	if len(slots) != 2 {
		t.Fatalf("first matching rule (10:00-11:00) must win, got %d slots", len(slots))
	}
	if !slots[0].Start.Equal(start.Add(10 * time.Hour)) {
		t.Fatalf("expected first slot at 10:00, got %s", slots[0].Start)
	}
}

func TestGenerateSlotsRangeDateEquivalence(t *testing.T) {
	// The walk is day-granular: a single-date query normalized to
	// 00:00:00-23:59:59.999 and an explicit range with sub-day bounds on
	// the same calendar day cover the same slots.
	dayStart, dayEnd := daySpan(2026, 3, 2)
	a := GenerateSlots(dayStart, dayEnd, weekdayRules(), nil)
	b := GenerateSlots(dayStart.Add(8*time.Hour), dayEnd.Add(-6*time.Hour), weekdayRules(), nil)
	if len(a) != len(b) {
		t.Fatalf("equivalent ranges produced %d vs %d slots", len(a), len(b))
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			t.Fatalf("slot %d differs between equivalent ranges", i)
		}
	}
}

func TestDefaultSlotsSkipsPast(t *testing.T) {
	// Range covering yesterday, today and tomorrow with "now" mid-morning
	// today: yesterday contributes nothing, today starts after now,
	// tomorrow is complete.
	now := time.Date(2026, 3, 3, 10, 10, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -1).Truncate(24 * time.Hour)
	end := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)
	slots := DefaultSlots(start, end, now, 9, 17)
	if len(slots) == 0 {
		t.Fatalf("expected slots for today and tomorrow")
	}
	for _, s := range slots {
		if s.Start.Before(now) {
			t.Fatalf("default schedule emitted past slot %s", s.Start)
		}
	}
	// Today: 10:30 through 16:30 starts = 13 slots; tomorrow full 16.
	if len(slots) != 29 {
		t.Fatalf("expected 29 slots (13 today + 16 tomorrow), got %d", len(slots))
	}
	if !slots[0].Start.Equal(time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("first default slot must be 10:30 today, got %s", slots[0].Start)
	}
}

func TestDefaultSlotsConfiguredHours(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	start, end := daySpan(2026, 3, 3)
	slots := DefaultSlots(start, end, now, 8, 12)
	if len(slots) != 8 {
		t.Fatalf("8:00-12:00 default window must yield 8 slots, got %d", len(slots))
	}
	if slots := DefaultSlots(start, end, now, 12, 8); len(slots) != 0 {
		t.Fatalf("inverted default hours must yield nothing")
	}
}
