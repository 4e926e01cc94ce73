package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/portapro/portapro-api/internal/model"
)

// UserRepo is the credential store accessor backing the authentication
// workflows. It owns all reads and writes of the `users` table.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// UserUpdate describes a partial update. Nil fields are left untouched.
// PendingToken uses sql.NullString so callers can distinguish "clear the
// token" (Valid=false) from "leave it alone" (nil).
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	PasswordHash *string
	Verified     *bool
	PendingToken *sql.NullString
}

const userColumns = "id, first_name, last_name, email, phone_number, password_hash, agreed_terms, verified, pending_token, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var pending sql.NullString
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &u.AgreedToTerms, &u.Verified, &pending, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if pending.Valid {
		u.PendingToken = &pending.String
	}
	return &u, nil
}

// FindByEmail fetches a user by exact email match.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return scanUser(row)
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

// Create inserts a new user and populates its ID and timestamps. The email
// uniqueness constraint surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, phone_number, password_hash, agreed_terms, verified)
		 VALUES (?,?,?,?,?,?,?)`,
		u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.PasswordHash, u.AgreedToTerms, u.Verified)
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	created, err := r.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// Update merges the given fields into the existing record and returns the
// updated row. Absent ids yield ErrUserNotFound. Each UPDATE is atomic at
// the storage layer; concurrent updates to the same record race and the
// last write wins.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (*model.User, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if upd.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *upd.LastName)
	}
	if upd.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, *upd.PhoneNumber)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Verified != nil {
		sets = append(sets, "verified = ?")
		args = append(args, *upd.Verified)
	}
	if upd.PendingToken != nil {
		sets = append(sets, "pending_token = ?")
		args = append(args, *upd.PendingToken)
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a user. ErrUserNotFound is returned when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
