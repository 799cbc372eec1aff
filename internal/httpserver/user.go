package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type UserHTTP struct {
	Svc  *service.UserService
	Auth *service.AuthService
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, users)
}

// IsAdmin answers whether the caller is an admin. Callers may only ask about
// themselves.
func (h *UserHTTP) IsAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.is_admin")

	email := c.Param("email")
	if err := service.RequireSelf(auth.Email(c), email); err != nil {
		return fail(l, "is_admin", err)
	}

	admin, err := h.Auth.IsAdmin(ctx, email)
	if err != nil {
		return fail(l, "is_admin", err)
	}
	return c.JSON(http.StatusOK, transport.AdminCheckResponse{Admin: admin})
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_user", err)
	}

	res, err := h.Svc.CreateUser(ctx, req)
	if err != nil {
		return fail(l, "create_user", err)
	}

	l.Info("create_user_success", "created", res.InsertedID != nil)
	return c.JSON(http.StatusOK, res)
}

func (h *UserHTTP) PromoteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.promote")

	res, err := h.Svc.PromoteUser(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "promote_user", err)
	}

	l.Info("promote_user_success", "id", c.Param("id"), "modified", res.ModifiedCount)
	return c.JSON(http.StatusOK, res)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	res, err := h.Svc.DeleteUser(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_user", err)
	}

	l.Info("delete_user_success", "id", c.Param("id"), "deleted", res.DeletedCount)
	return c.JSON(http.StatusOK, res)
}
