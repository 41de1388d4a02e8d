package model

// AvailabilitySetting is one weekly recurring open window, mirroring a
// row of the `availability_settings` table.  Settings are configured by
// an administrator and read-only from the booking paths.
//
// Fields:
//  ID          – primary key identifier.
//  DayOfWeek   – 0 (Sunday) through 6 (Saturday).
//  StartTime   – local opening time of day, "HH:MM:SS" as MySQL TIME scans.
//  EndTime     – local closing time of day.
//  IsAvailable – disabled rows are excluded from slot generation entirely.
type AvailabilitySetting struct {
	ID          uint64 // availability_settings.id
	DayOfWeek   int    // availability_settings.day_of_week
	StartTime   string // availability_settings.start_time
	EndTime     string // availability_settings.end_time
	IsAvailable bool   // availability_settings.is_available
}
