package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bookable/reservation-api/internal/availability"
)

// AvailabilityRepo reads the weekly recurring open-hours rules.  Rules
// are configured by an administrator out-of-band and are read-only from
// the booking paths.
type AvailabilityRepo struct{ DB *sql.DB }

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{DB: db} }

// EnabledRules returns the enabled rules for the given weekdays (0 =
// Sunday), ordered by id so "first match wins" is deterministic when a
// weekday carries duplicate rows.  An error here (including a missing
// table on an unprovisioned database) signals the caller to fall back
// to the default schedule.
func (r *AvailabilityRepo) EnabledRules(ctx context.Context, daysOfWeek []int) ([]availability.Rule, error) {
	if len(daysOfWeek) == 0 {
		return []availability.Rule{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(daysOfWeek)), ",")
	q := `SELECT day_of_week, start_time, end_time, is_available
	      FROM availability_settings
	      WHERE is_available = 1 AND day_of_week IN (` + placeholders + `)
	      ORDER BY id`
	args := make([]any, len(daysOfWeek))
	for i, d := range daysOfWeek {
		args[i] = d
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]availability.Rule, 0, len(daysOfWeek))
	for rows.Next() {
		var rule availability.Rule
		if err := rows.Scan(&rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.IsAvailable); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}
