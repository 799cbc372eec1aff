package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/service"
)

type StatsHTTP struct {
	Svc *service.StatsService
}

func (h *StatsHTTP) AdminStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stats.admin")

	stats, err := h.Svc.AdminStats(ctx, c.QueryParam("status"))
	if err != nil {
		return fail(l, "admin_stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *StatsHTTP) OrderStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stats.orders")

	stats, err := h.Svc.OrderStats(ctx, c.QueryParam("status"))
	if err != nil {
		return fail(l, "order_stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
