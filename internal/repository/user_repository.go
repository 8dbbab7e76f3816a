package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

// UserRepo manages persistence for the `user` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, password_hash, role, is_active"

// Create hashes the password and inserts a user.  The database
// assigns the ID; duplicate usernames surface as ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, username, password string, role model.Role, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user (username, password_hash, role, is_active) VALUES (?,?,?,1)",
		username, hash, string(role))
	if err != nil {
		// MySQL error 1062: duplicate entry for the unique username key.
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM user WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM user WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListAll returns every user for the admin back-office.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM user ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites a user's hash, role and active flag (administrative
// correction path).  Missing rows surface as ErrUserNotFound.
func (r *UserRepo) Update(ctx context.Context, id uint64, passwordHash string, role model.Role, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE user SET password_hash=?, role=?, is_active=? WHERE id=?",
		passwordHash, string(role), isActive, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows may also mean the values already match; confirm the
		// row exists before reporting not found.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM user WHERE id=? LIMIT 1", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// SoftDelete deactivates a user instead of removing the row, keeping
// their ticket history intact until cleanup.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE user SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Cleanup hard-deletes all deactivated users.  Their tickets and
// refresh tokens are removed in the same transaction: a user row
// going away cascades, unlike shows which only nullify.
func (r *UserRepo) Cleanup(ctx context.Context) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM ticket WHERE id_user IN (SELECT id FROM user WHERE is_active=0)"); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM refresh_token WHERE user_id IN (SELECT id FROM user WHERE is_active=0)"); err != nil {
		return 0, err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM user WHERE is_active=0"); err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return n, nil
}
