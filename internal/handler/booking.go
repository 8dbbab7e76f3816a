package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// BookingHandler serves /booking: the cookie-backed draft a visitor
// builds while walking through the schedule and seat screens.  No
// database row exists until the draft is turned into a ticket.
type BookingHandler struct {
	Codec *booking.Codec
	Shows *repository.ShowRepo
}

func NewBookingHandler(codec *booking.Codec, shows *repository.ShowRepo) *BookingHandler {
	return &BookingHandler{Codec: codec, Shows: shows}
}

// draft reads the current draft from the request cookie.  A missing,
// malformed or tampered cookie yields an empty draft.
func (h *BookingHandler) draft(c echo.Context) booking.Draft {
	ck, err := c.Cookie(booking.CookieName)
	if err != nil {
		return booking.Draft{}
	}
	d, err := h.Codec.Decode(ck.Value)
	if err != nil {
		return booking.Draft{}
	}
	return d
}

func (h *BookingHandler) store(c echo.Context, d booking.Draft) error {
	v, err := h.Codec.Encode(d)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     booking.CookieName,
		Value:    v,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type selectShowReq struct {
	ShowID uint64 `json:"showId"`
}
type selectSeatsReq struct {
	TicketAmount int `json:"ticketAmount"`
}

// SelectShow handles POST /booking/show: records the chosen show in
// the draft.  The show must exist and be active; the advertised price
// is copied into the cookie for the summary screen.
func (h *BookingHandler) SelectShow(c echo.Context) error {
	var req selectShowReq
	if err := c.Bind(&req); err != nil || req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showId is required"})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), req.ShowID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return storeFault(c, "booking: load show", err)
	}
	if !show.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show is not active"})
	}

	d := h.draft(c)
	d.SelectShow(show.FilmID, show.ID, show.Price)
	if err := h.store(c, d); err != nil {
		return storeFault(c, "booking: store draft", err)
	}
	return c.JSON(http.StatusOK, d)
}

// SelectSeats handles POST /booking/seats.  Picking seats before a
// show is allowed; the draft just stays incomplete.
func (h *BookingHandler) SelectSeats(c echo.Context) error {
	var req selectSeatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	d := h.draft(c)
	if err := d.SelectSeats(req.TicketAmount); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.store(c, d); err != nil {
		return storeFault(c, "booking: store draft", err)
	}
	return c.JSON(http.StatusOK, d)
}

// Get handles GET /booking: the current draft, for screen restore.
func (h *BookingHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.draft(c))
}

// Checkout handles GET /booking/checkout: the payment summary.  The
// draft must name a show; the total shown here is advisory and is
// re-derived from the store when the ticket is issued.
func (h *BookingHandler) Checkout(c echo.Context) error {
	d := h.draft(c)
	if !d.Complete() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrIncomplete.Error()})
	}
	if d.TicketAmount < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrSeatCount.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":    d,
		"totalPrice": d.Total(),
	})
}

// Clear handles DELETE /booking: discards the draft after checkout or
// a cancelled purchase.
func (h *BookingHandler) Clear(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     booking.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cleared"})
}
