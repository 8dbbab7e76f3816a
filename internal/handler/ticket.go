package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/service"
)

// TicketHandler serves /ticket: the authenticated purchase endpoint,
// the per-user ticket list and the admin back-office.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Shows   *repository.ShowRepo
}

func NewTicketHandler(t *repository.TicketRepo, s *repository.ShowRepo) *TicketHandler {
	return &TicketHandler{Tickets: t, Shows: s}
}

type ticketReq struct {
	ShowID uint64 `json:"idShow"`
	Amount int    `json:"ticketAmount"`
}

// Issue handles POST /ticket.  The buyer is taken from the access
// token and the total is derived from the stored show price; any
// totalPrice in the body is ignored.
func (h *TicketHandler) Issue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "idShow is required"})
	}
	if req.Amount < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketAmount must be at least 1"})
	}

	ctx := c.Request().Context()
	ticket, err := h.Tickets.Issue(ctx, userID, req.ShowID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show not found or not active"})
		case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrUserInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is not allowed to book"})
		}
		return storeFault(c, "tickets: issue", err)
	}

	h.announce(ticket)
	return c.JSON(http.StatusCreated, ticket)
}

// announce publishes the issued ticket to the broker.  Failures are
// swallowed: the ticket is already committed and the purchase must
// not fail because the broker is down.
func (h *TicketHandler) announce(t model.Ticket) {
	ev := queue.TicketIssuedEvent{
		TicketID:     t.ID,
		UserID:       t.UserID,
		TicketAmount: t.Amount,
		TotalPrice:   t.TotalPrice,
		IssuedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if t.ShowID != nil {
		ev.ShowID = *t.ShowID
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if t.ShowID != nil {
			if show, err := h.Shows.GetByID(ctx, *t.ShowID); err == nil {
				ev.FilmName = show.FilmName
				ev.ShowDay = show.ShowDay
				ev.BeginTime = show.BeginTime
				ev.Room = show.Room
			}
		}
		_ = service.PublishTicketIssued(ctx, ev)
	}()
}

// ListByUser handles GET /ticket/userview/:userId.  Users see their
// own tickets; admins may view anyone's.
func (h *TicketHandler) ListByUser(c echo.Context) error {
	target, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if caller != target && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	tickets, err := h.Tickets.ListByUser(c.Request().Context(), target)
	if err != nil {
		return storeFault(c, "tickets: list by user", err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// ListAll handles GET /ticket (admin).
func (h *TicketHandler) ListAll(c echo.Context) error {
	tickets, err := h.Tickets.ListAll(c.Request().Context())
	if err != nil {
		return storeFault(c, "tickets: list", err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get handles GET /ticket/:id (admin).
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ticket, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return storeFault(c, "tickets: get", err)
	}
	return c.JSON(http.StatusOK, ticket)
}

type ticketUpdateReq struct {
	UserID     uint64  `json:"idUser"`
	ShowID     *uint64 `json:"idShow"`
	Amount     int     `json:"ticketAmount"`
	TotalPrice int64   `json:"totalPrice"`
}

// Update handles PUT /ticket/:id, the admin correction path.  This is
// the only place a stored total can be rewritten.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.Amount < 1 || req.TotalPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "idUser, ticketAmount and totalPrice required"})
	}
	t := model.Ticket{ID: id, UserID: req.UserID, ShowID: req.ShowID, Amount: req.Amount, TotalPrice: req.TotalPrice}
	if err := h.Tickets.Update(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return storeFault(c, "tickets: update", err)
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /ticket/:id (admin, hard delete).
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return storeFault(c, "tickets: delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}
