package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// CategoryRepo manages persistence for the `category` table.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a category and writes the generated ID back.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO category (category_name, is_active) VALUES (?,?)", c.Name, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches one category.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, category_name, is_active FROM category WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCategoryNotFound
	}
	return c, err
}

// ListAll returns every category for the admin back-office.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	return r.list(ctx, "SELECT id, category_name, is_active FROM category ORDER BY category_name")
}

// ListActive returns categories offered on the public site.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	return r.list(ctx, "SELECT id, category_name, is_active FROM category WHERE is_active=1 ORDER BY category_name")
}

func (r *CategoryRepo) list(ctx context.Context, q string) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites name and active flag.  Deactivating a category
// never touches films; the join rows stay until cleanup.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE category SET category_name=?, is_active=? WHERE id=?", c.Name, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM category WHERE id=? LIMIT 1", c.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

// SoftDelete deactivates a category.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE category SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Cleanup hard-deletes inactive categories.  Join rows are detached
// first so films are never deleted through a category.
func (r *CategoryRepo) Cleanup(ctx context.Context) (int64, error) {
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
		"DELETE FROM film_category WHERE category_id IN (SELECT id FROM category WHERE is_active=0)"); err != nil {
		return 0, err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM category WHERE is_active=0"); err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
