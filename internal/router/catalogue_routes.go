package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// RegisterCatalogue registers the film, category and show endpoints.
// The public browse routes carry the Redis response cache; the
// management routes require the admin role.
func RegisterCatalogue(e *echo.Echo, f *handler.FilmHandler, c *handler.CategoryHandler,
	s *handler.ShowHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {

	cached := middleware.CacheGET(cacheCfg, rdb)

	// Public browse surface.  Detail routes are cached too; cache TTL
	// is short enough that an admin edit shows up quickly.
	e.GET("/film/active", f.ListActive, cached)
	e.GET("/film/currentshow", f.ListCurrent, cached)
	e.GET("/film/:id", f.Get, cached)
	e.GET("/category/active", c.ListActive, cached)
	e.GET("/show/active/:filmId", s.ListActiveByFilm, cached)
	e.GET("/show/:id", s.Get, cached)

	guard := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin)}

	film := e.Group("/film", guard...)
	film.GET("", f.ListAll)
	film.POST("", f.Create)
	film.PUT("/:id", f.Update)
	film.DELETE("/cleanup", f.Cleanup)
	film.DELETE("/:id", f.Delete)

	cat := e.Group("/category", guard...)
	cat.GET("", c.ListAll)
	cat.GET("/:id", c.Get)
	cat.POST("", c.Create)
	cat.PUT("/:id", c.Update)
	cat.DELETE("/cleanup", c.Cleanup)
	cat.DELETE("/:id", c.Delete)

	show := e.Group("/show", guard...)
	show.GET("", s.ListUpcoming)
	show.POST("", s.Create)
	show.PUT("/:id", s.Update)
	show.DELETE("/cleanup", s.Cleanup)
	show.DELETE("/:id", s.Delete)
}
