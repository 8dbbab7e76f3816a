package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// RegisterBooking registers the cookie-backed booking draft endpoints.
// These are open: the draft lives in the visitor's browser and no
// account is needed until payment.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	g := e.Group("/booking")
	g.POST("/show", b.SelectShow)
	g.POST("/seats", b.SelectSeats)
	g.GET("", b.Get)
	g.GET("/checkout", b.Checkout)
	g.DELETE("", b.Clear)
}

// RegisterTickets registers the /ticket endpoints.  Purchase and the
// per-user view need any valid token; the rest is admin only.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, jwtSecret string) {
	auth := e.Group("/ticket", middleware.JWTAuth(jwtSecret))

	user := auth.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	user.POST("", t.Issue)
	user.GET("/userview/:userId", t.ListByUser)

	admin := auth.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("", t.ListAll)
	admin.GET("/:id", t.Get)
	admin.PUT("/:id", t.Update)
	admin.DELETE("/:id", t.Delete)
}
