package model

import "time"

// Reservation statuses.  Cancelled reservations are excluded from both
// availability computation and overlap checks: they do not block slots
// and do not count as conflicts.  Cancellation is a status change, not
// an erasure.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled || s == StatusCompleted
}

// Reservation records a booked time interval, mirroring the
// `reservations` table.  StartTime and EndTime are absolute UTC
// timestamps with StartTime < EndTime; occupancy is evaluated over the
// half-open interval [StartTime, EndTime).
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short label shown on the calendar.
//  Description – optional free-form description.
//  StartTime   – beginning of the booked interval.
//  EndTime     – end of the booked interval (exclusive).
//  Status      – one of pending, confirmed, cancelled, completed.
//  CustomerID  – user the reservation is for.
//  CreatedBy   – user who created the record (staff may book on a
//                customer's behalf).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
	ID          uint64    // reservations.id
	Title       string    // reservations.title
	Description *string   // reservations.description (nullable)
	StartTime   time.Time // reservations.start_time
	EndTime     time.Time // reservations.end_time
	Status      string    // reservations.status
	CustomerID  uint64    // reservations.customer_id
	CreatedBy   uint64    // reservations.created_by
	CreatedAt   time.Time // reservations.created_at
	UpdatedAt   time.Time // reservations.updated_at
}

// ReservationDetails holds the optional secondary fields captured with a
// reservation, mirroring the `reservation_details` table (1:1 with
// reservations).  A missing row simply means no extra details were
// recorded; the write path tolerates a failed details insert without
// failing the reservation itself.
//
// Fields:
//  ID              – primary key identifier.
//  ReservationID   – reference to the owning reservation.
//  SpecialRequests – free-form requests from the customer.
//  NumberOfPeople  – party size, when relevant.
//  AdditionalNotes – internal notes added by staff.
type ReservationDetails struct {
	ID              uint64  // reservation_details.id
	ReservationID   uint64  // reservation_details.reservation_id
	SpecialRequests *string // reservation_details.special_requests (nullable)
	NumberOfPeople  *int    // reservation_details.number_of_people (nullable)
	AdditionalNotes *string // reservation_details.additional_notes (nullable)
}
