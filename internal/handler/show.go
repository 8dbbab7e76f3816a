package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/schedule"
)

// ShowHandler serves /show: the public schedule for a film and the
// admin scheduling endpoints, where the conflict checker runs.
type ShowHandler struct {
	Shows *repository.ShowRepo
}

func NewShowHandler(s *repository.ShowRepo) *ShowHandler { return &ShowHandler{Shows: s} }

type showReq struct {
	FilmID    uint64 `json:"film"`
	Price     int64  `json:"showPrice"`
	ShowDay   string `json:"showDay"`
	BeginTime string `json:"beginTime"`
	Room      int    `json:"room"`
	IsActive  *bool  `json:"isActive"`
}

func (r *showReq) validate() string {
	if r.FilmID == 0 {
		return "film is required"
	}
	if r.Price < 0 {
		return "showPrice must not be negative"
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(r.ShowDay)); err != nil {
		return "showDay must be a date (YYYY-MM-DD)"
	}
	if _, err := schedule.ParseClock(strings.TrimSpace(r.BeginTime)); err != nil {
		return "beginTime must be a time (HH:MM or HH:MM:SS)"
	}
	if r.Room == 0 {
		return "room is required"
	}
	return ""
}

// scheduleError maps conflict-checker failures onto the API contract:
// overlaps and the midnight rule are 400s with a message naming the
// problem, everything else falls through to the caller.
func scheduleError(c echo.Context, err error) (bool, error) {
	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		return true, c.JSON(http.StatusBadRequest, echo.Map{
			"error":    "show already exists at this time",
			"conflict": conflict.Existing,
		})
	}
	if errors.Is(err, schedule.ErrCrossesMidnight) {
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return false, nil
}

// ListUpcoming handles GET /show (admin): shows from today onward.
func (h *ShowHandler) ListUpcoming(c echo.Context) error {
	shows, err := h.Shows.ListUpcoming(c.Request().Context())
	if err != nil {
		return storeFault(c, "shows: list", err)
	}
	return c.JSON(http.StatusOK, shows)
}

// ListActiveByFilm handles GET /show/active/:filmId (public): the
// schedule-pick screen, ordered by day then begin time.
func (h *ShowHandler) ListActiveByFilm(c echo.Context) error {
	filmID, err := pathID(c, "filmId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	shows, err := h.Shows.ListActiveByFilm(c.Request().Context(), filmID)
	if err != nil {
		return storeFault(c, "shows: list by film", err)
	}
	return c.JSON(http.StatusOK, shows)
}

// Get handles GET /show/:id (public).
func (h *ShowHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return storeFault(c, "shows: get", err)
	}
	return c.JSON(http.StatusOK, show)
}

// Create handles POST /show.  The end time is derived, never taken
// from the body, and the slot is verified free under lock.
func (h *ShowHandler) Create(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	show := model.ShowSchedule{
		FilmID:    req.FilmID,
		Price:     req.Price,
		ShowDay:   strings.TrimSpace(req.ShowDay),
		BeginTime: strings.TrimSpace(req.BeginTime),
		Room:      req.Room,
		IsActive:  active,
	}
	if err := h.Shows.CreateScheduled(c.Request().Context(), &show); err != nil {
		if handled, resp := scheduleError(c, err); handled {
			return resp
		}
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return storeFault(c, "shows: create", err)
	}
	return c.JSON(http.StatusCreated, show)
}

// Update handles PUT /show/:id.  The conflict search excludes the
// show being edited, so re-saving an unchanged slot succeeds.
func (h *ShowHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isActive is required"})
	}
	show := model.ShowSchedule{
		ID:        id,
		FilmID:    req.FilmID,
		Price:     req.Price,
		ShowDay:   strings.TrimSpace(req.ShowDay),
		BeginTime: strings.TrimSpace(req.BeginTime),
		Room:      req.Room,
		IsActive:  *req.IsActive,
	}
	if err := h.Shows.UpdateScheduled(c.Request().Context(), &show); err != nil {
		if handled, resp := scheduleError(c, err); handled {
			return resp
		}
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return storeFault(c, "shows: update", err)
	}
	return c.JSON(http.StatusOK, show)
}

// Delete handles DELETE /show/:id (soft delete; the slot frees up
// for new proposals immediately).
func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Shows.SoftDelete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return storeFault(c, "shows: delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "show deactivated"})
}

// Cleanup handles DELETE /show/cleanup.
func (h *ShowHandler) Cleanup(c echo.Context) error {
	n, err := h.Shows.Cleanup(c.Request().Context())
	if err != nil {
		return storeFault(c, "shows: cleanup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
