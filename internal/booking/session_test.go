package booking

import (
	"errors"
	"strings"
	"testing"
)

func TestSelectShowThenSeats(t *testing.T) {
	var d Draft
	d.SelectShow(3, 12, 50000)
	if err := d.SelectSeats(3); err != nil {
		t.Fatalf("SelectSeats failed: %v", err)
	}
	if d.FilmID != 3 || d.ShowID != 12 || d.ShowPrice != 50000 || d.TicketAmount != 3 {
		t.Errorf("unexpected snapshot: %+v", d)
	}
	if d.Total() != 150000 {
		t.Errorf("expected total 150000, got %d", d.Total())
	}
}

func TestSelectionOrderIsCommutative(t *testing.T) {
	var a, b Draft

	a.SelectShow(3, 12, 50000)
	if err := a.SelectSeats(2); err != nil {
		t.Fatalf("SelectSeats failed: %v", err)
	}

	if err := b.SelectSeats(2); err != nil {
		t.Fatalf("SelectSeats failed: %v", err)
	}
	b.SelectShow(3, 12, 50000)

	if a != b {
		t.Errorf("snapshots differ by call order: %+v vs %+v", a, b)
	}
}

func TestSelectShowOverwritesPriorSelection(t *testing.T) {
	var d Draft
	d.SelectShow(3, 12, 50000)
	d.SelectShow(5, 20, 40000)
	if d.FilmID != 5 || d.ShowID != 20 || d.ShowPrice != 40000 {
		t.Errorf("second selection should win: %+v", d)
	}
}

func TestSelectSeatsRejectsZero(t *testing.T) {
	var d Draft
	if err := d.SelectSeats(0); !errors.Is(err, ErrSeatCount) {
		t.Errorf("expected ErrSeatCount for 0 seats, got %v", err)
	}
	if err := d.SelectSeats(-2); !errors.Is(err, ErrSeatCount) {
		t.Errorf("expected ErrSeatCount for negative seats, got %v", err)
	}
}

func TestCompleteGuardsPayment(t *testing.T) {
	var d Draft
	if d.Complete() {
		t.Error("empty draft must not reach payment")
	}
	if err := d.SelectSeats(2); err != nil {
		t.Fatalf("SelectSeats failed: %v", err)
	}
	if d.Complete() {
		t.Error("seats without a show must not reach payment")
	}
	d.SelectShow(1, 2, 30000)
	if !d.Complete() {
		t.Error("draft with film and show should reach payment")
	}
}

func TestCookieRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	in := Draft{FilmID: 3, ShowID: 12, ShowPrice: 50000, TicketAmount: 2}

	value, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestCookieTamperDetected(t *testing.T) {
	codec := NewCodec("test-secret")
	value, err := codec.Encode(Draft{FilmID: 3, ShowID: 12, ShowPrice: 50000})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	body, sig, _ := strings.Cut(value, ".")

	// Flip the payload but keep the signature.
	forged := codec
	forgedValue, err := forged.Encode(Draft{FilmID: 3, ShowID: 12, ShowPrice: 1})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	forgedBody, _, _ := strings.Cut(forgedValue, ".")
	if _, err := codec.Decode(forgedBody + "." + sig); !errors.Is(err, ErrBadCookie) {
		t.Errorf("expected ErrBadCookie for swapped payload, got %v", err)
	}

	// A different secret must not verify either.
	other := NewCodec("other-secret")
	if _, err := other.Decode(body + "." + sig); !errors.Is(err, ErrBadCookie) {
		t.Errorf("expected ErrBadCookie across secrets, got %v", err)
	}

	if _, err := codec.Decode("not-a-cookie"); !errors.Is(err, ErrBadCookie) {
		t.Errorf("expected ErrBadCookie for malformed value, got %v", err)
	}
}
