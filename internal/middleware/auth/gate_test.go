package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/tokens"
)

var secret = []byte("test-jwt-secret")

type admins map[string]bool

func (a admins) VerifyToken(token string) (*tokens.Claims, error) {
	return tokens.ClaimsFromToken(token, secret)
}

func (a admins) RequireAdmin(_ context.Context, email string) error {
	if email == "broken@meals.test" {
		return errors.New("db down")
	}
	if !a[email] {
		return service.ErrForbidden
	}
	return nil
}

func newGateServer(t *testing.T, roles admins) *echo.Echo {
	t.Helper()
	g := NewGate(roles)

	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, Email(c)) }
	e.GET("/private", ok, g.RequireAuth())
	e.GET("/optional", ok, g.OptionalAuth())
	e.GET("/admin", ok, g.RequireAuth(), g.RequireAdmin)
	return e
}

func issue(t *testing.T, email string, now time.Time) string {
	t.Helper()
	tok, _, err := tokens.Issue(tokens.Identity{Email: email}, secret, time.Hour, now)
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	e := newGateServer(t, admins{})
	valid := issue(t, "me@meals.test", time.Now())
	expired := issue(t, "me@meals.test", time.Now().Add(-2*time.Hour))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "valid", token: valid, wantStatus: http.StatusOK},
		{name: "missing", token: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage", token: "abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "expired", token: expired, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(e, "/private", tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "unauthorized access")
			} else {
				assert.Equal(t, "me@meals.test", rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	e := newGateServer(t, admins{"admin@meals.test": true})

	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{name: "admin", email: "admin@meals.test", wantStatus: http.StatusOK},
		{name: "plain user", email: "user@meals.test", wantStatus: http.StatusForbidden},
		{name: "lookup failure", email: "broken@meals.test", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(e, "/admin", issue(t, tt.email, time.Now()))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "forbidden access")
			}
		})
	}

	rec := do(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	e := newGateServer(t, admins{})

	rec := do(e, "/optional", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, "/optional", issue(t, "me@meals.test", time.Now()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me@meals.test", rec.Body.String())

	rec = do(e, "/optional", "abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_VerifiesThroughAuthService(t *testing.T) {
	t.Parallel()

	other := []byte("other-secret")
	e := echo.New()
	g := NewGate(&service.AuthService{Secret: other})
	e.GET("/private", func(c echo.Context) error { return c.String(http.StatusOK, Email(c)) }, g.RequireAuth())

	assert.Equal(t, http.StatusUnauthorized, do(e, "/private", issue(t, "me@meals.test", time.Now())).Code)

	tok, _, err := tokens.Issue(tokens.Identity{Email: "me@meals.test"}, other, time.Hour, time.Now())
	require.NoError(t, err)
	rec := do(e, "/private", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me@meals.test", rec.Body.String())
}
