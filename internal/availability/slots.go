package availability

import (
	"fmt"
	"time"
)

// SlotDuration is the fixed length of every bookable slot.
const SlotDuration = 30 * time.Minute

// Rule is one weekly recurring open window, mirroring a row of the
// availability_settings table.  DayOfWeek uses 0 for Sunday through 6 for
// Saturday, matching time.Weekday.  StartTime and EndTime are local
// times of day in "HH:MM" form ("HH:MM:SS" is tolerated because MySQL
// TIME columns scan that way).
type Rule struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// Interval is the slice of a reservation the core needs: its identifier
// and its half-open [Start, End) occupancy.  Callers must pass only
// non-cancelled reservations; cancelled ones never block slots and never
// count as conflicts.
type Interval struct {
	ID    uint64
	Start time.Time
	End   time.Time
}

// Slot is a free bookable window of exactly SlotDuration.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GenerateSlots walks each calendar day from rangeStart's date through
// rangeEnd's date inclusive and emits the free slots allowed by the
// weekly rules.  For each day the first enabled rule matching the
// weekday is used; days with no matching rule contribute nothing.  A
// slot is emitted while its start is strictly before the day's close
// and it overlaps none of the busy intervals.  Occupied slots are
// simply skipped: booked entries are a separate query the caller joins
// when it needs a combined calendar view.
//
// The busy set is expected to be every non-cancelled reservation whose
// interval intersects [rangeStart, rangeEnd]; the caller performs that
// coarse range filter, this function filters per slot.
func GenerateSlots(rangeStart, rangeEnd time.Time, rules []Rule, busy []Interval) []Slot {
	slots := make([]Slot, 0)
	if rangeEnd.Before(rangeStart) {
		return slots
	}

	loc := rangeStart.Location()
	day := dateOf(rangeStart, loc)
	lastDay := dateOf(rangeEnd, loc)

	for !day.After(lastDay) {
		rule, ok := ruleFor(rules, int(day.Weekday()))
		if !ok {
			day = day.AddDate(0, 0, 1)
			continue
		}
		openH, openM, err1 := parseClock(rule.StartTime)
		closeH, closeM, err2 := parseClock(rule.EndTime)
		if err1 != nil || err2 != nil {
			day = day.AddDate(0, 0, 1)
			continue
		}
		dayOpen := day.Add(time.Duration(openH)*time.Hour + time.Duration(openM)*time.Minute)
		dayClose := day.Add(time.Duration(closeH)*time.Hour + time.Duration(closeM)*time.Minute)
		// Malformed rule (open at or after close) contributes nothing.
		if !dayOpen.Before(dayClose) {
			day = day.AddDate(0, 0, 1)
			continue
		}

		for slotStart := dayOpen; slotStart.Before(dayClose); slotStart = slotStart.Add(SlotDuration) {
			slotEnd := slotStart.Add(SlotDuration)
			if !overlapsAny(slotStart, slotEnd, busy) {
				slots = append(slots, Slot{Start: slotStart, End: slotEnd})
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

// DefaultSlots produces the fallback schedule used when the weekly rules
// cannot be read: openHour to closeHour local time in SlotDuration steps
// for every day in range.  Days whose date lies strictly before now's
// date are skipped entirely, and no slot ever starts before now.
func DefaultSlots(rangeStart, rangeEnd, now time.Time, openHour, closeHour int) []Slot {
	slots := make([]Slot, 0)
	if rangeEnd.Before(rangeStart) || openHour >= closeHour {
		return slots
	}

	loc := rangeStart.Location()
	day := dateOf(rangeStart, loc)
	lastDay := dateOf(rangeEnd, loc)
	today := dateOf(now.In(loc), loc)

	for !day.After(lastDay) {
		if day.Before(today) {
			day = day.AddDate(0, 0, 1)
			continue
		}
		dayOpen := day.Add(time.Duration(openHour) * time.Hour)
		dayClose := day.Add(time.Duration(closeHour) * time.Hour)
		for slotStart := dayOpen; slotStart.Before(dayClose); slotStart = slotStart.Add(SlotDuration) {
			if slotStart.Before(now) {
				continue
			}
			slots = append(slots, Slot{Start: slotStart, End: slotStart.Add(SlotDuration)})
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

// ruleFor returns the first enabled rule for the given weekday.  Rule
// sets are expected to hold one row per weekday, but duplicates are
// tolerated: the first match wins.
func ruleFor(rules []Rule, weekday int) (Rule, bool) {
	for _, r := range rules {
		if r.DayOfWeek == weekday && r.IsAvailable {
			return r, true
		}
	}
	return Rule{}, false
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// dateOf truncates t to midnight of its calendar day in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// parseClock parses "HH:MM" or "HH:MM:SS" into hour and minute.
func parseClock(s string) (hour, minute int, err error) {
	var sec int
	if _, e := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); e == nil {
		// seconds are ignored; rules are minute-granular
	} else if _, e := fmt.Sscanf(s, "%d:%d", &hour, &minute); e != nil {
		return 0, 0, e
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time of day: %q", s)
	}
	return hour, minute, nil
}
