package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// TicketRepo manages persistence for the `ticket` table.  Issue is
// the only path the booking flow uses; the update method exists for
// administrative correction only.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketCols = `t.id_ticket, t.id_user, t.id_show, t.ticket_amount, t.total_price`

// ticketJoin decorates tickets with buyer and show details for list
// views.  Left joins keep tickets visible after their show is gone.
const ticketJoin = `
	FROM ticket t
	JOIN user u ON u.id = t.id_user
	LEFT JOIN show_schedule s ON s.id = t.id_show
	LEFT JOIN film f ON f.id = s.film_id`

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var (
		t        model.Ticket
		showID   sql.NullInt64
		film     sql.NullString
		day      sql.NullString
		beginT   sql.NullString
		endT     sql.NullString
		username string
	)
	err := row.Scan(&t.ID, &t.UserID, &showID, &t.Amount, &t.TotalPrice,
		&username, &film, &day, &beginT, &endT)
	if err != nil {
		return t, err
	}
	if showID.Valid {
		v := uint64(showID.Int64)
		t.ShowID = &v
	}
	t.Username = username
	t.FilmName = film.String
	t.ShowDay = day.String
	if beginT.Valid && endT.Valid {
		t.ShowTime = beginT.String + " - " + endT.String
	}
	return t, nil
}

const ticketSelect = `SELECT ` + ticketCols + `, u.username, f.film_name,
	DATE_FORMAT(s.show_day, '%Y-%m-%d'),
	TIME_FORMAT(s.begin_time, '%H:%i:%s'), TIME_FORMAT(s.end_time, '%H:%i:%s')` + ticketJoin

// Issue converts a completed booking into a durable ticket.  The
// total price is derived inside the transaction from the current show
// price, never taken from the caller; the show row is locked so a
// concurrent price edit cannot split the snapshot.
func (r *TicketRepo) Issue(ctx context.Context, userID, showID uint64, amount int) (model.Ticket, error) {
	var t model.Ticket
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var active bool
	if err = tx.QueryRowContext(ctx, "SELECT is_active FROM user WHERE id=? LIMIT 1", userID).Scan(&active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUserNotFound
		}
		return t, err
	}
	if !active {
		err = ErrUserInactive
		return t, err
	}

	var price int64
	if err = tx.QueryRowContext(ctx,
		"SELECT show_price FROM show_schedule WHERE id=? AND is_active=1 LIMIT 1 FOR UPDATE", showID).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShowNotFound
		}
		return t, err
	}

	total := price * int64(amount)
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO ticket (id_user, id_show, ticket_amount, total_price) VALUES (?,?,?,?)",
		userID, showID, amount, total)
	if err != nil {
		return t, err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return t, err
	}
	if err = tx.Commit(); err != nil {
		return t, err
	}

	sid := showID
	t = model.Ticket{ID: uint64(id), UserID: userID, ShowID: &sid, Amount: amount, TotalPrice: total}
	return t, nil
}

// GetByID fetches one decorated ticket.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx, ticketSelect+" WHERE t.id_ticket=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrTicketNotFound
	}
	return t, err
}

// ListAll returns every ticket for the admin back-office.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, ticketSelect+" ORDER BY t.id_ticket")
}

// ListByUser returns one user's tickets for the "my tickets" page.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return r.list(ctx, ticketSelect+" WHERE t.id_user=? ORDER BY t.id_ticket", userID)
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update is the administrative correction path.  It rewrites the row
// as given, including the stored total; it is not reachable from the
// booking flow.
func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE ticket SET id_user=?, id_show=?, ticket_amount=?, total_price=? WHERE id_ticket=?",
		t.UserID, t.ShowID, t.Amount, t.TotalPrice, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM ticket WHERE id_ticket=? LIMIT 1", t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTicketNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a ticket row (admin only; tickets have no soft
// delete, history lives until an admin discards it).
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM ticket WHERE id_ticket=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
