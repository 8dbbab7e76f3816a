package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// FilmRepo manages persistence for films and their category join
// rows.  Category attachments are replaced wholesale on update, which
// matches how the admin form submits them.
type FilmRepo struct{ DB *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

const filmCols = `id, film_name, film_description, poster, backdrop,
	DATE_FORMAT(premiere, '%Y-%m-%d'), trailer, is_active`

func scanFilm(row interface{ Scan(...any) error }) (model.Film, error) {
	var f model.Film
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Poster, &f.Backdrop,
		&f.Premiere, &f.Trailer, &f.IsActive)
	return f, err
}

// Create inserts a film and its category join rows in one
// transaction.  The generated ID is written back onto the film.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film, categoryIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO film (film_name, film_description, poster, backdrop, premiere, trailer, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		f.Name, f.Description, f.Poster, f.Backdrop, f.Premiere, f.Trailer, f.IsActive)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	f.ID = uint64(id)
	for _, cid := range categoryIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO film_category (film_id, category_id) VALUES (?,?)", f.ID, cid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID returns a film with its category names aggregated for the
// detail page.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	f, err := scanFilm(r.DB.QueryRowContext(ctx,
		"SELECT "+filmCols+" FROM film WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrFilmNotFound
	}
	if err != nil {
		return f, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.category_name FROM film_category fc
		 JOIN category c ON c.id = fc.category_id
		 WHERE fc.film_id = ? ORDER BY c.category_name`, id)
	if err != nil {
		return f, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return f, err
		}
		f.Categories = append(f.Categories, name)
	}
	return f, rows.Err()
}

// ListAll returns every film for the admin back-office.
func (r *FilmRepo) ListAll(ctx context.Context) ([]model.Film, error) {
	return r.list(ctx, "SELECT "+filmCols+" FROM film ORDER BY id")
}

// ListActive returns films visible on the public site.
func (r *FilmRepo) ListActive(ctx context.Context) ([]model.Film, error) {
	return r.list(ctx, "SELECT "+filmCols+" FROM film WHERE is_active=1 ORDER BY premiere DESC")
}

// ListCurrent returns active films whose premiere falls within the
// last 14 days: the "now showing" strip on the home page.
func (r *FilmRepo) ListCurrent(ctx context.Context) ([]model.Film, error) {
	return r.list(ctx,
		`SELECT `+filmCols+` FROM film
		 WHERE is_active=1 AND premiere >= CURDATE() - INTERVAL 14 DAY
		 ORDER BY premiere DESC`)
}

func (r *FilmRepo) list(ctx context.Context, q string) ([]model.Film, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update rewrites a film and replaces its category attachments.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film, categoryIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var one int
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM film WHERE id=? LIMIT 1", f.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrFilmNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE film SET film_name=?, film_description=?, poster=?, backdrop=?,
		 premiere=?, trailer=?, is_active=? WHERE id=?`,
		f.Name, f.Description, f.Poster, f.Backdrop, f.Premiere, f.Trailer, f.IsActive, f.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM film_category WHERE film_id=?", f.ID); err != nil {
		return err
	}
	for _, cid := range categoryIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO film_category (film_id, category_id) VALUES (?,?)", f.ID, cid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SoftDelete hides a film from the public site.  Shows and tickets
// referencing it are untouched; retention is resolved at cleanup.
func (r *FilmRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE film SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	return nil
}

// Cleanup hard-deletes all inactive films.  Join rows cascade with
// the film; tickets keep their history because the dependent shows
// nullify ticket.id_show before being removed.
func (r *FilmRepo) Cleanup(ctx context.Context) (int64, error) {
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
		`UPDATE ticket SET id_show=NULL WHERE id_show IN
		 (SELECT id FROM show_schedule WHERE film_id IN (SELECT id FROM film WHERE is_active=0))`); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM show_schedule WHERE film_id IN (SELECT id FROM film WHERE is_active=0)"); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM film_category WHERE film_id IN (SELECT id FROM film WHERE is_active=0)"); err != nil {
		return 0, err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM film WHERE is_active=0"); err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
