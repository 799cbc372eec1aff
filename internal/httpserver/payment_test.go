package httpserver

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NureAlam68/magical-meals-server/internal/gateway/sslcommerz"
	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

const buyer = "buyer@meals.test"

func TestCreatePaymentIntent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	// no token needed
	rec := env.doJSONRequest(http.MethodPost, "/create-payment-intent", transport.PaymentIntentRequest{Price: 10}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_secret"}`, rec.Body.String())

	rec = env.doJSONRequest(http.MethodPost, "/create-payment-intent", transport.PaymentIntentRequest{Price: 10}, env.token(t, buyer))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/create-payment-intent", transport.PaymentIntentRequest{Price: 0}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPayments_ForeignEmailForbidden(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.doJSONRequest(http.MethodGet, "/payments/other@meals.test", nil, env.token(t, buyer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "forbidden access")

	rec = env.doJSONRequest(http.MethodGet, "/payments/"+buyer, nil, env.token(t, buyer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Payment](t, rec))
}

func TestConfirmPayment_DirectPath(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	menu := env.seedMenu(t, "Pizza", "italian", 12)
	c1 := env.seedCart(t, buyer, menu)
	c2 := env.seedCart(t, buyer, menu)
	tok := env.token(t, buyer)

	rec := env.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{
		Price:         24,
		TransactionID: "pi_1",
		CartIDs:       []string{c1.ID.String(), c2.ID.String()},
		MenuItemIDs:   []string{menu.ID.String(), menu.ID.String()},
	}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[transport.PaymentResult](t, rec)
	assert.NotNil(t, res.PaymentResult.InsertedID)
	assert.Equal(t, int64(2), res.DeletedResult.DeletedCount)

	left, err := env.Repo.CountCartItems(t.Context(), []uuid.UUID{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.Zero(t, left)

	rec = env.doJSONRequest(http.MethodGet, "/payments/"+buyer, nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	payments := decode[[]models.Payment](t, rec)
	require.Len(t, payments, 1)
	assert.Equal(t, []string{c1.ID.String(), c2.ID.String()}, payments[0].CartIDs)
}

func TestConfirmPayment_Anonymous(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	menu := env.seedMenu(t, "Pizza", "italian", 12)
	c1 := env.seedCart(t, buyer, menu)

	rec := env.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{
		Email:         buyer,
		Price:         12,
		TransactionID: "pi_anon",
		CartIDs:       []string{c1.ID.String()},
		MenuItemIDs:   []string{menu.ID.String()},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[transport.PaymentResult](t, rec).DeletedResult.DeletedCount)

	p, err := env.Repo.FindPaymentByTransaction(t.Context(), "pi_anon", models.GatewayCard)
	require.NoError(t, err)
	assert.Equal(t, buyer, p.Email)
}

func TestConfirmPayment_Guards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	rec := env.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Email: "other@meals.test", Price: 1}, env.token(t, buyer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, env.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Price: 1}, "not-a-token").Code)
	// anonymous without an email has nobody to bill
	assert.Equal(t, http.StatusBadRequest, env.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Price: 1}, "").Code)

	locked := newTestEnv(t, envOptions{paymentsRequireToken: true})
	rec = locked.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Email: buyer, Price: 1}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = locked.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Price: 1}, locked.token(t, buyer))
	assert.Equal(t, http.StatusOK, rec.Code)

	off := newTestEnv(t, envOptions{directDisabled: true})
	rec = off.doJSONRequest(http.MethodPost, "/payments", transport.PaymentRequest{Price: 1}, off.token(t, buyer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "direct payments disabled")
}

func TestGatewayFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	menu := env.seedMenu(t, "Pizza", "italian", 12)
	c1 := env.seedCart(t, buyer, menu)
	c2 := env.seedCart(t, buyer, menu)
	tok := env.token(t, buyer)

	rec := env.doJSONRequest(http.MethodPost, "/create-ssl-payment", transport.PaymentRequest{
		Email: "other@meals.test", Price: 24,
	}, tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/create-ssl-payment", transport.PaymentRequest{
		Price:       24,
		CartIDs:     []string{c1.ID.String(), c2.ID.String()},
		MenuItemIDs: []string{menu.ID.String()},
	}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	tran := env.Redirect.lastTran
	assert.Equal(t, "https://pay.test/"+tran, decode[transport.GatewaySessionResponse](t, rec).GatewayURL)

	// a forged callback is checked with the gateway and rejected
	rec = env.doFormRequest("/success", url.Values{"val_id": {"forged"}, "tran_id": {tran}, "status": {"VALID"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment failed")

	p, err := env.Repo.FindPaymentByTransaction(t.Context(), tran, models.GatewaySSLCommerz)
	require.NoError(t, err)
	assert.Empty(t, p.Status)

	env.Redirect.validations["val-ok"] = &sslcommerz.Validation{Status: sslcommerz.StatusValid, TranID: tran}
	for i := 0; i < 2; i++ {
		rec = env.doFormRequest("/success", url.Values{"val_id": {"val-ok"}})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, successPage, rec.Header().Get(echo.HeaderLocation))
	}

	p, err = env.Repo.FindPaymentByTransaction(t.Context(), tran, models.GatewaySSLCommerz)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, p.Status)

	left, err := env.Repo.CountCartItems(t.Context(), []uuid.UUID{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestGatewaySuccess_UnknownTransaction(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	env.Redirect.validations["val-x"] = &sslcommerz.Validation{Status: sslcommerz.StatusValid, TranID: "missing"}

	rec := env.doFormRequest("/success", url.Values{"val_id": {"val-x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewayIPN_ReconcilesOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	menu := env.seedMenu(t, "Pizza", "italian", 12)
	c1 := env.seedCart(t, buyer, menu)

	rec := env.doJSONRequest(http.MethodPost, "/create-ssl-payment", transport.PaymentRequest{
		Price:   12,
		CartIDs: []string{c1.ID.String()},
	}, env.token(t, buyer))
	require.Equal(t, http.StatusOK, rec.Code)
	tran := env.Redirect.lastTran

	rec = env.doFormRequest("/ipn", url.Values{"val_id": {"unknown"}, "status": {"VALID"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.Redirect.validations["val-ipn"] = &sslcommerz.Validation{Status: sslcommerz.StatusValid, TranID: tran}

	// the notification and the browser redirect may arrive in either order
	rec = env.doFormRequest("/ipn", url.Values{"val_id": {"val-ipn"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.doFormRequest("/success", url.Values{"val_id": {"val-ipn"}})
	require.Equal(t, http.StatusFound, rec.Code)

	p, err := env.Repo.FindPaymentByTransaction(t.Context(), tran, models.GatewaySSLCommerz)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, p.Status)

	left, err := env.Repo.CountCartItems(t.Context(), []uuid.UUID{c1.ID})
	require.NoError(t, err)
	assert.Zero(t, left)
}
