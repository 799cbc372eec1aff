package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
	"github.com/NureAlam68/magical-meals-server/internal/util"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) ListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	items, err := h.Svc.ListMenu(ctx)
	if err != nil {
		return fail(l, "list_menu", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get")

	item, err := h.Svc.GetMenuItem(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_menu_item", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) SearchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchMenu(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_menu", err)
	}

	l.Info("search_menu_success", "total", res.Total)
	return c.JSON(http.StatusOK, res)
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create")

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_menu_item", err)
	}

	item, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		return fail(l, "create_menu_item", err)
	}

	l.Info("create_menu_item_success", "id", item.ID)
	return c.JSON(http.StatusOK, transport.Inserted(item.ID.String()))
}

func (h *MenuHTTP) UpdateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update")

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_menu_item", err)
	}

	res, err := h.Svc.UpdateMenuItem(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_menu_item", err)
	}

	l.Info("update_menu_item_success", "id", c.Param("id"), "modified", res.ModifiedCount)
	return c.JSON(http.StatusOK, res)
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete")

	res, err := h.Svc.DeleteMenuItem(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_menu_item", err)
	}

	l.Info("delete_menu_item_success", "id", c.Param("id"), "deleted", res.DeletedCount)
	return c.JSON(http.StatusOK, res)
}

func (h *MenuHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	reviews, err := h.Svc.ListReviews(ctx)
	if err != nil {
		return fail(l, "list_reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}
