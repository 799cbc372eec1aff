package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/NureAlam68/magical-meals-server/internal/gateway/sslcommerz"
	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/mail"
	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
	loggingmw "github.com/NureAlam68/magical-meals-server/internal/middleware/logging"
	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/testutil"
	"github.com/NureAlam68/magical-meals-server/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

const successPage = "https://app.test/dashboard/cart"

type stubCard struct{}

func (stubCard) CreatePaymentIntent(context.Context, int64, string) (string, error) {
	return "pi_secret", nil
}

type stubRedirect struct {
	validations map[string]*sslcommerz.Validation
	lastTran    string
}

func (s *stubRedirect) InitSession(_ context.Context, req sslcommerz.SessionRequest) (*sslcommerz.Session, error) {
	s.lastTran = req.TransactionID
	return &sslcommerz.Session{Status: "SUCCESS", GatewayPageURL: "https://pay.test/" + req.TransactionID}, nil
}

func (s *stubRedirect) Validate(_ context.Context, valID string) (*sslcommerz.Validation, error) {
	if v, ok := s.validations[valID]; ok {
		return v, nil
	}
	return &sslcommerz.Validation{Status: "INVALID_TRANSACTION"}, nil
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Message) error { return nil }

type envOptions struct {
	publicCarts          bool
	directDisabled       bool
	paymentsRequireToken bool
}

type testEnv struct {
	E        *echo.Echo
	Repo     *repo.GormRepo
	Redirect *stubRedirect
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	redirect := &stubRedirect{validations: map[string]*sslcommerz.Validation{}}

	authSvc := &service.AuthService{Repo: r, Secret: testSecret, TTL: time.Hour}
	paySvc := &service.PaymentService{
		Repo:            r,
		Card:            stubCard{},
		Redirect:        redirect,
		Mailer:          nopMailer{},
		SuccessRedirect: successPage,
	}

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "info")))
	Register(e, &Deps{
		DB:       db,
		Gate:     auth.NewGate(authSvc),
		Auth:     &AuthHTTP{Svc: authSvc},
		Users:    &UserHTTP{Svc: &service.UserService{Repo: r}, Auth: authSvc},
		Menu:     &MenuHTTP{Svc: &service.MenuService{Repo: r}},
		Carts:    &CartHTTP{Svc: &service.CartService{Repo: r}, Public: opts.publicCarts},
		Payments: &PaymentHTTP{Svc: paySvc, DirectEnabled: !opts.directDisabled, RequireToken: opts.paymentsRequireToken},
		Stats:    &StatsHTTP{Svc: &service.StatsService{Repo: r}},
	})

	return &testEnv{E: e, Repo: r, Redirect: redirect}
}

func (env *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	tok, _, err := tokens.Issue(tokens.Identity{Email: email}, testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	return tok
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doFormRequest(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedUser(t *testing.T, email, role string) models.User {
	t.Helper()
	u := models.User{Name: "user", Email: email, Role: role}
	require.NoError(t, env.Repo.DB.Create(&u).Error)
	return u
}

func (env *testEnv) seedMenu(t *testing.T, name, category string, price float64) models.MenuItem {
	t.Helper()
	m := models.MenuItem{Name: name, Category: category, Price: price}
	require.NoError(t, env.Repo.DB.Create(&m).Error)
	return m
}

func (env *testEnv) seedCart(t *testing.T, email string, m models.MenuItem) models.CartItem {
	t.Helper()
	c := models.CartItem{Email: email, MenuID: m.ID, Name: m.Name, Price: m.Price}
	require.NoError(t, env.Repo.DB.Create(&c).Error)
	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
