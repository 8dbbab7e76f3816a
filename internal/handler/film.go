package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// FilmHandler serves the /film endpoints: public browsing plus the
// admin catalogue management.
type FilmHandler struct {
	Films *repository.FilmRepo
}

func NewFilmHandler(f *repository.FilmRepo) *FilmHandler { return &FilmHandler{Films: f} }

type filmReq struct {
	Name        string   `json:"filmName"`
	Description string   `json:"filmDescription"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	Premiere    string   `json:"premiere"`
	Trailer     string   `json:"trailer"`
	IsActive    *bool    `json:"isActive"`
	Categories  []uint64 `json:"categories"`
}

func (r *filmReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "filmName is required"
	}
	if strings.TrimSpace(r.Premiere) == "" {
		return "premiere is required"
	}
	return ""
}

// ListAll handles GET /film (admin grid, inactive rows included).
func (h *FilmHandler) ListAll(c echo.Context) error {
	films, err := h.Films.ListAll(c.Request().Context())
	if err != nil {
		return storeFault(c, "films: list", err)
	}
	return c.JSON(http.StatusOK, films)
}

// ListActive handles GET /film/active (public catalogue).
func (h *FilmHandler) ListActive(c echo.Context) error {
	films, err := h.Films.ListActive(c.Request().Context())
	if err != nil {
		return storeFault(c, "films: list active", err)
	}
	return c.JSON(http.StatusOK, films)
}

// ListCurrent handles GET /film/currentshow: active films premiered
// within the last 14 days.
func (h *FilmHandler) ListCurrent(c echo.Context) error {
	films, err := h.Films.ListCurrent(c.Request().Context())
	if err != nil {
		return storeFault(c, "films: list current", err)
	}
	return c.JSON(http.StatusOK, films)
}

// Get handles GET /film/:id with aggregated category names.
func (h *FilmHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	film, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return storeFault(c, "films: get", err)
	}
	return c.JSON(http.StatusOK, film)
}

// Create handles POST /film.
func (h *FilmHandler) Create(c echo.Context) error {
	var req filmReq
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
	film := model.Film{
		Name:        req.Name,
		Description: req.Description,
		Poster:      req.Poster,
		Backdrop:    req.Backdrop,
		Premiere:    req.Premiere,
		Trailer:     req.Trailer,
		IsActive:    active,
	}
	if err := h.Films.Create(c.Request().Context(), &film, req.Categories); err != nil {
		return storeFault(c, "films: create", err)
	}
	return c.JSON(http.StatusCreated, film)
}

// Update handles PUT /film/:id, replacing category attachments.
func (h *FilmHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isActive is required"})
	}
	film := model.Film{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Poster:      req.Poster,
		Backdrop:    req.Backdrop,
		Premiere:    req.Premiere,
		Trailer:     req.Trailer,
		IsActive:    *req.IsActive,
	}
	if err := h.Films.Update(c.Request().Context(), &film, req.Categories); err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return storeFault(c, "films: update", err)
	}
	return c.JSON(http.StatusOK, film)
}

// Delete handles DELETE /film/:id (soft delete).
func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Films.SoftDelete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return storeFault(c, "films: delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "film deactivated"})
}

// Cleanup handles DELETE /film/cleanup: hard-deletes inactive films
// and their shows; ticket history is preserved with id_show nulled.
func (h *FilmHandler) Cleanup(c echo.Context) error {
	n, err := h.Films.Cleanup(c.Request().Context())
	if err != nil {
		return storeFault(c, "films: cleanup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
