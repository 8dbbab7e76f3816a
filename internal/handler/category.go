package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// CategoryHandler serves /category: a public active list and the
// admin CRUD.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

type categoryReq struct {
	Name     string `json:"categoryName"`
	IsActive *bool  `json:"isActive"`
}

// ListActive handles GET /category/active (public).
func (h *CategoryHandler) ListActive(c echo.Context) error {
	cats, err := h.Categories.ListActive(c.Request().Context())
	if err != nil {
		return storeFault(c, "categories: list active", err)
	}
	return c.JSON(http.StatusOK, cats)
}

// ListAll handles GET /category (admin).
func (h *CategoryHandler) ListAll(c echo.Context) error {
	cats, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return storeFault(c, "categories: list", err)
	}
	return c.JSON(http.StatusOK, cats)
}

// Get handles GET /category/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return storeFault(c, "categories: get", err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Create handles POST /category.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "categoryName is required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cat := model.Category{Name: req.Name, IsActive: active}
	if err := h.Categories.Create(c.Request().Context(), &cat); err != nil {
		return storeFault(c, "categories: create", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /category/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "categoryName and isActive required"})
	}
	cat := model.Category{ID: id, Name: req.Name, IsActive: *req.IsActive}
	if err := h.Categories.Update(c.Request().Context(), &cat); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return storeFault(c, "categories: update", err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /category/:id (soft delete; films keep their
// attachments until cleanup).
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Categories.SoftDelete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return storeFault(c, "categories: delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deactivated"})
}

// Cleanup handles DELETE /category/cleanup.
func (h *CategoryHandler) Cleanup(c echo.Context) error {
	n, err := h.Categories.Cleanup(c.Request().Context())
	if err != nil {
		return storeFault(c, "categories: cleanup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
