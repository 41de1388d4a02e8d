package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bookable/reservation-api/internal/model"
	"github.com/bookable/reservation-api/internal/utils"
)

// UserRepo provides CRUD operations on the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,first_name,last_name,phone,role,is_active,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	return u, err
}

// Create inserts a user and returns its ID.  The email is normalized to
// lower case; a duplicate yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName, phone, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var ph any
	if phone != "" {
		ph = phone
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, phone, role) VALUES (?,?,?,?,?,?)",
		email, hash, firstName, lastName, ph, role)
	if err != nil {
		// 1062 is the MySQL duplicate-key error.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// List returns users matching the optional search string (against email
// and names) and role filter, newest first, plus the total count before
// pagination.
func (r *UserRepo) List(ctx context.Context, search, role string, limit, offset int) ([]model.User, int, error) {
	where := "WHERE 1=1"
	args := make([]any, 0, 4)
	if search != "" {
		like := "%" + search + "%"
		where += " AND (email LIKE ? OR first_name LIKE ? OR last_name LIKE ?)"
		args = append(args, like, like, like)
	}
	if role != "" {
		where += " AND role=?"
		args = append(args, role)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + userColumns + " FROM users " + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UserUpdate carries the optional fields of a user update.  Nil pointers
// leave the corresponding column untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Role      *string
}

// Update applies the non-nil fields of upd to the user row and returns
// the updated record.  Calling it with an empty update is a no-op that
// returns the current row.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (model.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *upd.LastName)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *upd.Phone)
	}
	if upd.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, *upd.Role)
	}
	if len(sets) > 0 {
		q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id=?"
		if _, err := r.DB.ExecContext(ctx, q, append(args, id)...); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}
