package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/schedule"
)

// ShowRepo manages persistence for the `show_schedule` table.  Writes
// that could violate the no-overlap invariant go through
// CreateScheduled/UpdateScheduled, which re-run the conflict check
// inside a transaction holding row locks on the candidate room/day.
// The handler-level check is only a pre-flight courtesy; the locked
// check is the guard.
type ShowRepo struct{ DB *sql.DB }

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{DB: db} }

const showCols = `s.id, s.film_id, s.show_price, DATE_FORMAT(s.show_day, '%Y-%m-%d'),
	TIME_FORMAT(s.begin_time, '%H:%i:%s'), TIME_FORMAT(s.end_time, '%H:%i:%s'),
	s.room, s.is_active`

func scanShow(row interface{ Scan(...any) error }, withFilm bool) (model.ShowSchedule, error) {
	var s model.ShowSchedule
	dest := []any{&s.ID, &s.FilmID, &s.Price, &s.ShowDay, &s.BeginTime, &s.EndTime, &s.Room, &s.IsActive}
	if withFilm {
		dest = append(dest, &s.FilmName)
	}
	err := row.Scan(dest...)
	return s, err
}

// GetByID fetches one show with its film name.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.ShowSchedule, error) {
	s, err := scanShow(r.DB.QueryRowContext(ctx,
		`SELECT `+showCols+`, f.film_name FROM show_schedule s
		 JOIN film f ON f.id = s.film_id WHERE s.id=? LIMIT 1`, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrShowNotFound
	}
	return s, err
}

// ListUpcoming returns shows from today onward for the admin grid.
func (r *ShowRepo) ListUpcoming(ctx context.Context) ([]model.ShowSchedule, error) {
	return r.list(ctx,
		`SELECT `+showCols+`, f.film_name FROM show_schedule s
		 JOIN film f ON f.id = s.film_id
		 WHERE s.show_day >= CURDATE()
		 ORDER BY s.show_day, s.begin_time`)
}

// ListActiveByFilm returns the upcoming active shows for one film,
// ordered by day then begin time: the public schedule-pick screen.
func (r *ShowRepo) ListActiveByFilm(ctx context.Context, filmID uint64) ([]model.ShowSchedule, error) {
	return r.list(ctx,
		`SELECT `+showCols+`, f.film_name FROM show_schedule s
		 JOIN film f ON f.id = s.film_id
		 WHERE s.film_id = ? AND s.is_active = 1 AND s.show_day >= CURDATE()
		 ORDER BY s.show_day, s.begin_time`, filmID)
}

func (r *ShowRepo) list(ctx context.Context, q string, args ...any) ([]model.ShowSchedule, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ShowSchedule
	for rows.Next() {
		s, err := scanShow(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// lockDayRoom reads all shows for one room and day under FOR UPDATE,
// serializing concurrent proposals for the same slot range.
func (r *ShowRepo) lockDayRoom(ctx context.Context, tx *sql.Tx, day string, room int) ([]model.ShowSchedule, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+showCols+` FROM show_schedule s
		 WHERE s.show_day = ? AND s.room = ? FOR UPDATE`, day, room)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ShowSchedule
	for rows.Next() {
		s, err := scanShow(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateScheduled derives the end time, verifies the slot is free and
// inserts the show, all in one transaction.  Conflicts come back as
// *schedule.ConflictError naming the occupying show; a begin time too
// close to midnight comes back as schedule.ErrCrossesMidnight.  On
// any failure nothing is persisted.
func (r *ShowRepo) CreateScheduled(ctx context.Context, s *model.ShowSchedule) error {
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
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM film WHERE id=? LIMIT 1", s.FilmID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrFilmNotFound
		}
		return err
	}
	existing, err := r.lockDayRoom(ctx, tx, s.ShowDay, s.Room)
	if err != nil {
		return err
	}
	var end string
	if end, err = schedule.Propose(existing, s.ShowDay, s.Room, s.BeginTime, 0); err != nil {
		return err
	}
	s.EndTime = end
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO show_schedule (film_id, show_price, show_day, begin_time, end_time, room, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		s.FilmID, s.Price, s.ShowDay, s.BeginTime, s.EndTime, s.Room, s.IsActive)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	s.ID = uint64(id)
	return tx.Commit()
}

// UpdateScheduled re-runs the conflict check for an edited show,
// excluding the show itself so that re-saving an unchanged slot
// succeeds, then rewrites the row.
func (r *ShowRepo) UpdateScheduled(ctx context.Context, s *model.ShowSchedule) error {
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
	if err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM show_schedule WHERE id=? LIMIT 1 FOR UPDATE", s.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShowNotFound
		}
		return err
	}
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM film WHERE id=? LIMIT 1", s.FilmID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrFilmNotFound
		}
		return err
	}
	existing, err := r.lockDayRoom(ctx, tx, s.ShowDay, s.Room)
	if err != nil {
		return err
	}
	var end string
	if end, err = schedule.Propose(existing, s.ShowDay, s.Room, s.BeginTime, s.ID); err != nil {
		return err
	}
	s.EndTime = end
	if _, err = tx.ExecContext(ctx,
		`UPDATE show_schedule SET film_id=?, show_price=?, show_day=?, begin_time=?, end_time=?, room=?, is_active=?
		 WHERE id=?`,
		s.FilmID, s.Price, s.ShowDay, s.BeginTime, s.EndTime, s.Room, s.IsActive, s.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// SoftDelete deactivates a show.  Deactivated shows stop conflicting
// with new proposals and disappear from the public schedule.
func (r *ShowRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE show_schedule SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// Cleanup hard-deletes inactive shows.  Tickets keep their rows with
// id_show nullified so purchase history outlives the schedule.
func (r *ShowRepo) Cleanup(ctx context.Context) (int64, error) {
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
		"UPDATE ticket SET id_show=NULL WHERE id_show IN (SELECT id FROM show_schedule WHERE is_active=0)"); err != nil {
		return 0, err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM show_schedule WHERE is_active=0"); err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
