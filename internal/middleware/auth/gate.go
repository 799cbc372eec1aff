// Package auth guards routes: RequireAuth checks the bearer token and
// RequireAdmin checks the caller's role in the store on every request.
package auth

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/tokens"
)

const ClaimsKey = "claims"

// Authorizer is satisfied by service.AuthService.
type Authorizer interface {
	VerifyToken(token string) (*tokens.Claims, error)
	RequireAdmin(ctx context.Context, email string) error
}

type Gate struct {
	Auth Authorizer
}

func NewGate(a Authorizer) *Gate {
	return &Gate{Auth: a}
}

func (g *Gate) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(g.jwtConfig(nil))
}

// OptionalAuth verifies a bearer token when one is sent and lets requests
// without an Authorization header through with no claims.
func (g *Gate) OptionalAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(g.jwtConfig(func(c echo.Context) bool {
		return c.Request().Header.Get(echo.HeaderAuthorization) == ""
	}))
}

func (g *Gate) jwtConfig(skip func(echo.Context) bool) echojwt.Config {
	return echojwt.Config{
		Skipper:     skip,
		ContextKey:  ClaimsKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := g.Auth.VerifyToken(auth)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.With(req.Context(), "caller", Email(c))))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_error",
				"status", http.StatusUnauthorized,
				"path", c.Path(),
				"error", err,
			)
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		},
	}
}

// RequireAdmin must run after RequireAuth.
func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		claims := ClaimsFrom(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}

		err := g.Auth.RequireAdmin(ctx, claims.Email)
		switch {
		case err == nil:
			return next(c)
		case errors.Is(err, service.ErrForbidden):
			l.Warn("admin_check_denied", "status", http.StatusForbidden, "path", c.Path())
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		default:
			l.Error("admin_check_error", "status", http.StatusInternalServerError, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
}

func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(ClaimsKey).(*tokens.Claims)
	return claims
}

// Email is the caller's email, or "" when the request carries no token.
func Email(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.Email
	}
	return ""
}
