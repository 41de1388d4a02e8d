package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bookable/reservation-api/internal/availability"
	"github.com/bookable/reservation-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// optional details row.  All timestamps are stored in UTC; occupancy is
// evaluated over half-open [start_time, end_time) intervals.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = "id,title,description,start_time,end_time,status,customer_id,created_by,created_at,updated_at"

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	var desc sql.NullString
	err := row.Scan(&res.ID, &res.Title, &desc, &res.StartTime, &res.EndTime,
		&res.Status, &res.CustomerID, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt)
	if desc.Valid {
		d := desc.String
		res.Description = &d
	}
	return res, err
}

// Create inserts a new reservation and reads the stored row back into
// res so generated ID, timestamps and defaults are populated.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	var desc any
	if res.Description != nil {
		desc = *res.Description
	}
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations (title, description, start_time, end_time, status, customer_id, created_by) VALUES (?,?,?,?,?,?,?)",
		res.Title, desc, res.StartTime, res.EndTime, res.Status, res.CustomerID, res.CreatedBy)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*res = stored
	return nil
}

// GetByID fetches a bare reservation row.  sql.ErrNoRows when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id)
	return scanReservation(row)
}

// ReservationUpdate carries the optional fields of a reservation update.
// Nil pointers leave the corresponding column untouched.
type ReservationUpdate struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *string
	CustomerID  *uint64
}

// Update applies the non-nil fields of upd and returns the updated row.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, upd ReservationUpdate) (model.Reservation, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.StartTime != nil {
		sets = append(sets, "start_time=?")
		args = append(args, *upd.StartTime)
	}
	if upd.EndTime != nil {
		sets = append(sets, "end_time=?")
		args = append(args, *upd.EndTime)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *upd.Status)
	}
	if upd.CustomerID != nil {
		sets = append(sets, "customer_id=?")
		args = append(args, *upd.CustomerID)
	}
	if len(sets) > 0 {
		q := "UPDATE reservations SET " + strings.Join(sets, ", ") + " WHERE id=?"
		if _, err := r.DB.ExecContext(ctx, q, append(args, id)...); err != nil {
			return model.Reservation{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a reservation; the details row goes with it via the
// foreign key's ON DELETE CASCADE.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	return err
}

// ListFilter narrows List output.  Zero values mean "no filter"; the
// CustomerID and CreatedBy filters implement the role scoping of the
// listing endpoint.
type ListFilter struct {
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	CustomerID uint64
	CreatedBy  uint64
	Limit      int
	Offset     int
}

// PersonPart is the slice of a user joined into reservation responses.
type PersonPart struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// DetailsPart is the optional secondary fields joined into the detail
// endpoint's response.
type DetailsPart struct {
	SpecialRequests *string `json:"special_requests"`
	NumberOfPeople  *int    `json:"number_of_people"`
	AdditionalNotes *string `json:"additional_notes"`
}

// ReservationItem is a reservation row with the joined customer and
// creator, as returned by listing and detail endpoints.  Details is
// populated by GetItem only and omitted when no row exists.
type ReservationItem struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
	Status      string       `json:"status"`
	CustomerID  uint64       `json:"customer_id"`
	CreatedBy   uint64       `json:"created_by"`
	Customer    PersonPart   `json:"customer"`
	Creator     PersonPart   `json:"creator"`
	Details     *DetailsPart `json:"details,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

const itemSelect = `SELECT r.id, r.title, r.description, r.start_time, r.end_time, r.status,
       r.customer_id, r.created_by, r.created_at, r.updated_at,
       cu.id, cu.first_name, cu.last_name, cu.email,
       cr.id, cr.first_name, cr.last_name, cr.email
FROM reservations r
JOIN users cu ON cu.id = r.customer_id
JOIN users cr ON cr.id = r.created_by`

func scanItem(row interface{ Scan(...any) error }) (ReservationItem, error) {
	var it ReservationItem
	var desc sql.NullString
	err := row.Scan(&it.ID, &it.Title, &desc, &it.StartTime, &it.EndTime, &it.Status,
		&it.CustomerID, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
		&it.Customer.ID, &it.Customer.FirstName, &it.Customer.LastName, &it.Customer.Email,
		&it.Creator.ID, &it.Creator.FirstName, &it.Creator.LastName, &it.Creator.Email)
	if desc.Valid {
		d := desc.String
		it.Description = &d
	}
	return it, err
}

// List returns reservations matching the filter ordered by start time
// ascending, plus the total count before pagination.
func (r *ReservationRepo) List(ctx context.Context, f ListFilter) ([]ReservationItem, int, error) {
	where := " WHERE 1=1"
	args := make([]any, 0, 6)
	if f.Status != "" {
		where += " AND r.status=?"
		args = append(args, f.Status)
	}
	if f.StartDate != nil {
		where += " AND r.start_time >= ?"
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		where += " AND r.end_time <= ?"
		args = append(args, *f.EndDate)
	}
	if f.CustomerID != 0 {
		where += " AND r.customer_id=?"
		args = append(args, f.CustomerID)
	}
	if f.CreatedBy != 0 {
		where += " AND r.created_by=?"
		args = append(args, f.CreatedBy)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM reservations r"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := itemSelect + where + " ORDER BY r.start_time ASC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]ReservationItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetItem loads a reservation with its joined customer, creator and
// details row (nil when no details were recorded).
func (r *ReservationRepo) GetItem(ctx context.Context, id uint64) (*ReservationItem, error) {
	row := r.DB.QueryRowContext(ctx, itemSelect+" WHERE r.id=? LIMIT 1", id)
	it, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	var det DetailsPart
	var special, notes sql.NullString
	var people sql.NullInt64
	err = r.DB.QueryRowContext(ctx,
		"SELECT special_requests, number_of_people, additional_notes FROM reservation_details WHERE reservation_id=? LIMIT 1",
		id).Scan(&special, &people, &notes)
	switch {
	case err == sql.ErrNoRows:
		// no details recorded; not an error
	case err != nil:
		return nil, err
	default:
		if special.Valid {
			s := special.String
			det.SpecialRequests = &s
		}
		if people.Valid {
			n := int(people.Int64)
			det.NumberOfPeople = &n
		}
		if notes.Valid {
			s := notes.String
			det.AdditionalNotes = &s
		}
		it.Details = &det
	}
	return &it, nil
}

// UpsertDetails inserts or updates the details row for a reservation.
// reservation_id carries a unique key, so a second write updates in place.
func (r *ReservationRepo) UpsertDetails(ctx context.Context, d model.ReservationDetails) error {
	var special, notes, people any
	if d.SpecialRequests != nil {
		special = *d.SpecialRequests
	}
	if d.NumberOfPeople != nil {
		people = *d.NumberOfPeople
	}
	if d.AdditionalNotes != nil {
		notes = *d.AdditionalNotes
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO reservation_details (reservation_id, special_requests, number_of_people, additional_notes)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE special_requests=VALUES(special_requests),
		                         number_of_people=VALUES(number_of_people),
		                         additional_notes=VALUES(additional_notes)`,
		d.ReservationID, special, people, notes)
	return err
}

// IntervalsInRange returns the intervals of every non-cancelled
// reservation intersecting [rangeStart, rangeEnd], boundary inclusive.
// This is the coarse filter feeding the slot generator, which then
// filters per slot.
func (r *ReservationRepo) IntervalsInRange(ctx context.Context, rangeStart, rangeEnd time.Time) ([]availability.Interval, error) {
	const q = `SELECT id, start_time, end_time FROM reservations
	           WHERE status <> 'cancelled' AND start_time <= ? AND end_time >= ?`
	return r.queryIntervals(ctx, q, rangeEnd, rangeStart)
}

// ConflictCandidates returns the intervals of non-cancelled reservations
// whose stored range touches the proposed [start, end) window, excluding
// excludeID when non-zero.  The shared overlap predicate makes the final
// call on the candidates so boundary semantics stay in one place.
func (r *ReservationRepo) ConflictCandidates(ctx context.Context, start, end time.Time, excludeID uint64) ([]availability.Interval, error) {
	q := `SELECT id, start_time, end_time FROM reservations
	      WHERE status <> 'cancelled' AND NOT (end_time <= ? OR start_time >= ?)`
	args := []any{start, end}
	if excludeID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeID)
	}
	return r.queryIntervals(ctx, q, args...)
}

func (r *ReservationRepo) queryIntervals(ctx context.Context, q string, args ...any) ([]availability.Interval, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	intervals := make([]availability.Interval, 0)
	for rows.Next() {
		var iv availability.Interval
		if err := rows.Scan(&iv.ID, &iv.Start, &iv.End); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return intervals, nil
}

// RecentByCustomer returns the customer's most recent reservations,
// newest start first, for the admin/staff user-detail view.
func (r *ReservationRepo) RecentByCustomer(ctx context.Context, customerID uint64, limit int) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE customer_id=? ORDER BY start_time DESC LIMIT ?",
		customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0, limit)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
