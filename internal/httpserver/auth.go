package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) IssueToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.issue_token")

	var req transport.TokenRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "issue_token", err)
	}

	token, err := h.Svc.IssueToken(ctx, req)
	if err != nil {
		return fail(l, "issue_token", err)
	}

	l.Info("issue_token_success", "email", req.Email)
	return c.JSON(http.StatusOK, transport.TokenResponse{Token: token})
}
