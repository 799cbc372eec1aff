package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
)

type Deps struct {
	DB       *gorm.DB
	Gate     *auth.Gate
	Auth     *AuthHTTP
	Users    *UserHTTP
	Menu     *MenuHTTP
	Carts    *CartHTTP
	Payments *PaymentHTTP
	Stats    *StatsHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Magical meals server is running") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := d.Gate.RequireAuth()
	admin := []echo.MiddlewareFunc{requireAuth, d.Gate.RequireAdmin}

	e.POST("/jwt", d.Auth.IssueToken)

	e.GET("/users", d.Users.ListUsers, admin...)
	e.GET("/users/admin/:email", d.Users.IsAdmin, requireAuth)
	e.POST("/users", d.Users.CreateUser)
	e.PATCH("/users/admin/:id", d.Users.PromoteUser, admin...)
	e.DELETE("/users/:id", d.Users.DeleteUser, admin...)

	e.GET("/menu", d.Menu.ListMenu)
	e.GET("/menu/search", d.Menu.SearchMenu)
	e.GET("/menu/:id", d.Menu.GetMenuItem)
	e.POST("/menu", d.Menu.CreateMenuItem, admin...)
	e.PATCH("/menu/:id", d.Menu.UpdateMenuItem, admin...)
	e.DELETE("/menu/:id", d.Menu.DeleteMenuItem, admin...)

	e.GET("/reviews", d.Menu.ListReviews)

	var cartMW []echo.MiddlewareFunc
	if !d.Carts.Public {
		cartMW = append(cartMW, requireAuth)
	}
	e.GET("/carts", d.Carts.GetCart, cartMW...)
	e.POST("/carts", d.Carts.AddToCart, cartMW...)
	e.DELETE("/carts/:id", d.Carts.DeleteFromCart, cartMW...)

	directMW := d.Gate.OptionalAuth()
	if d.Payments.RequireToken {
		directMW = requireAuth
	}
	e.POST("/create-payment-intent", d.Payments.CreatePaymentIntent)
	e.GET("/payments/:email", d.Payments.ListPayments, requireAuth)
	e.POST("/payments", d.Payments.ConfirmPayment, directMW)
	e.POST("/create-ssl-payment", d.Payments.CreateGatewaySession, requireAuth)
	e.POST("/success", d.Payments.GatewaySuccess)
	e.POST("/ipn", d.Payments.GatewayIPN)

	e.GET("/admin-stats", d.Stats.AdminStats, admin...)
	e.GET("/order-stats", d.Stats.OrderStats, admin...)
}
