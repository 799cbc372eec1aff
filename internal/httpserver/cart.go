package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

// CartHTTP serves carts. Unless Public is set every cart operation is
// limited to the caller's own cart.
type CartHTTP struct {
	Svc    *service.CartService
	Public bool
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	email := c.QueryParam("email")
	if !h.Public {
		caller := auth.Email(c)
		if email == "" {
			email = caller
		}
		if err := service.RequireSelf(caller, email); err != nil {
			return fail(l, "get_cart", err)
		}
	}

	items, err := h.Svc.GetCart(ctx, email)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_to_cart", err)
	}
	if !h.Public {
		req.Email = auth.Email(c)
	}

	res, err := h.Svc.AddToCart(ctx, req)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}

	l.Info("add_to_cart_success", "email", req.Email)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	owner := ""
	if !h.Public {
		owner = auth.Email(c)
	}

	res, err := h.Svc.DeleteFromCart(ctx, c.Param("id"), owner)
	if err != nil {
		return fail(l, "delete_from_cart", err)
	}

	l.Info("delete_from_cart_success", "id", c.Param("id"), "deleted", res.DeletedCount)
	return c.JSON(http.StatusOK, res)
}
