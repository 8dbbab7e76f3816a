package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/booking"
)

func newBookingHandler() *BookingHandler {
	return NewBookingHandler(booking.NewCodec("test-secret"), nil)
}

func doBooking(t *testing.T, h func(echo.Context) error, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func draftCookie(t *testing.T, d booking.Draft) *http.Cookie {
	t.Helper()
	v, err := booking.NewCodec("test-secret").Encode(d)
	if err != nil {
		t.Fatalf("encode draft: %v", err)
	}
	return &http.Cookie{Name: booking.CookieName, Value: v}
}

func TestBookingGetEmptyWithoutCookie(t *testing.T) {
	h := newBookingHandler()
	rec := doBooking(t, h.Get, http.MethodGet, "/booking", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Fatalf("body = %s, want empty draft", rec.Body.String())
	}
}

func TestBookingSelectSeatsSetsSignedCookie(t *testing.T) {
	h := newBookingHandler()
	rec := doBooking(t, h.SelectSeats, http.MethodPost, "/booking/seats", `{"ticketAmount":3}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == booking.CookieName {
			found = ck
		}
	}
	if found == nil {
		t.Fatal("no booking cookie set")
	}
	d, err := booking.NewCodec("test-secret").Decode(found.Value)
	if err != nil {
		t.Fatalf("decode cookie: %v", err)
	}
	if d.TicketAmount != 3 {
		t.Fatalf("ticketAmount = %d, want 3", d.TicketAmount)
	}
}

func TestBookingSelectSeatsRejectsZero(t *testing.T) {
	h := newBookingHandler()
	rec := doBooking(t, h.SelectSeats, http.MethodPost, "/booking/seats", `{"ticketAmount":0}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookingCheckoutIncomplete(t *testing.T) {
	h := newBookingHandler()

	// No cookie at all.
	rec := doBooking(t, h.Checkout, http.MethodGet, "/booking/checkout", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	// Seats picked but no show.
	ck := draftCookie(t, booking.Draft{TicketAmount: 2})
	rec = doBooking(t, h.Checkout, http.MethodGet, "/booking/checkout", "", ck)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookingCheckoutTotal(t *testing.T) {
	h := newBookingHandler()
	ck := draftCookie(t, booking.Draft{FilmID: 4, ShowID: 9, ShowPrice: 1200, TicketAmount: 3})
	rec := doBooking(t, h.Checkout, http.MethodGet, "/booking/checkout", "", ck)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"totalPrice":3600`) {
		t.Fatalf("body = %s, want totalPrice 3600", rec.Body.String())
	}
}

func TestBookingTamperedCookieIgnored(t *testing.T) {
	h := newBookingHandler()
	ck := draftCookie(t, booking.Draft{FilmID: 4, ShowID: 9, ShowPrice: 1200, TicketAmount: 3})
	ck.Value = "x" + ck.Value

	rec := doBooking(t, h.Checkout, http.MethodGet, "/booking/checkout", "", ck)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for tampered cookie", rec.Code)
	}
}

func TestBookingClearExpiresCookie(t *testing.T) {
	h := newBookingHandler()
	rec := doBooking(t, h.Clear, http.MethodDelete, "/booking", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == booking.CookieName {
			if ck.MaxAge >= 0 {
				t.Fatalf("cookie MaxAge = %d, want negative", ck.MaxAge)
			}
			return
		}
	}
	t.Fatal("no expiring booking cookie set")
}
