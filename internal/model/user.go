package model

import "time"

// Role names accepted by the application.  They are carried in the JWT
// "role" claim and stored on the users row.  Customers book for
// themselves, staff manage bookings they created, admins are
// unrestricted.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	return s == RoleCustomer || s == RoleStaff || s == RoleAdmin
}

// User represents an application user record as stored in the `users`
// table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name shown on reservations.
//  LastName     – family name shown on reservations.
//  Phone        – optional contact number.
//  Role         – one of CUSTOMER, STAFF, ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Phone        *string   // users.phone (nullable)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries expiry and revocation
// metadata.  The plain token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
