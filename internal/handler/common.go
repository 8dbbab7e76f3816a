package handler // handler defines the HTTP handlers for the booking API

import (
	"errors"
	"log"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from the context set
// by the JWT middleware.  JWT numeric claims decode as float64; admin
// tooling occasionally sends string subjects, so both are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the current request carries the admin role.
func isAdmin(c echo.Context) bool {
	v, _ := c.Get("role").(string)
	return v == "a"
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// storeFault logs a storage-layer error and returns the generic 500
// body.  Detail never leaks to the caller.
func storeFault(c echo.Context, op string, err error) error {
	log.Printf("%s: %v", op, err)
	return c.JSON(500, echo.Map{"error": "server-side error"})
}
