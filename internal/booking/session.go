// Package booking holds the client-side booking draft: the in-progress
// purchase a visitor carries across the schedule, seat and payment
// screens.  The draft lives in a signed cookie, not in the database,
// so it survives page reloads in one browser but not a device switch.
// The server treats its price and amount fields as hints only; the
// authoritative total is re-derived from the show row at issuance.
package booking

import "errors"

// ErrSeatCount is returned when a seat selection is below one.
var ErrSeatCount = errors.New("ticket amount must be at least 1")

// ErrIncomplete is returned when the payment screen is reached before
// a film and show were selected.
var ErrIncomplete = errors.New("no show selected")

// Draft is the booking session state.  Zero values mean "not yet
// chosen"; real film and show IDs are never zero.
type Draft struct {
	FilmID       uint64 `json:"filmId,omitempty"`
	ShowID       uint64 `json:"showId,omitempty"`
	ShowPrice    int64  `json:"showPrice,omitempty"`
	TicketAmount int    `json:"ticketAmount,omitempty"`
}

// SelectShow records the chosen film, show and its advertised price,
// overwriting any earlier selection.  The seat count survives so that
// picking seats before re-picking a show time still yields a complete
// draft.
func (d *Draft) SelectShow(filmID, showID uint64, price int64) {
	d.FilmID = filmID
	d.ShowID = showID
	d.ShowPrice = price
}

// SelectSeats records the seat count.  Counts below one are rejected.
func (d *Draft) SelectSeats(n int) error {
	if n < 1 {
		return ErrSeatCount
	}
	d.TicketAmount = n
	return nil
}

// Complete reports whether the draft may proceed to payment: a film
// and a show must have been selected.
func (d Draft) Complete() bool { return d.FilmID != 0 && d.ShowID != 0 }

// Total is the advisory total shown on the payment screen, computed
// from the cookie's own price and amount.  Issuance recomputes this
// from the store.
func (d Draft) Total() int64 { return d.ShowPrice * int64(d.TicketAmount) }
