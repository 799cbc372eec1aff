package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
	"github.com/NureAlam68/magical-meals-server/internal/service"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type PaymentHTTP struct {
	Svc           *service.PaymentService
	DirectEnabled bool
	// RequireToken rejects anonymous direct payments.
	RequireToken bool
}

type gatewayCallback struct {
	ValID string `json:"val_id" form:"val_id"`
}

func (h *PaymentHTTP) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	var req transport.PaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_payment_intent", err)
	}

	secret, err := h.Svc.CreatePaymentIntent(ctx, req.Price)
	if err != nil {
		return fail(l, "create_payment_intent", err)
	}

	l.Info("create_payment_intent_success", "amount_cents", service.AmountCents(req.Price))
	return c.JSON(http.StatusOK, transport.PaymentIntentResponse{ClientSecret: secret})
}

func (h *PaymentHTTP) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.list")

	email := c.Param("email")
	if err := service.RequireSelf(auth.Email(c), email); err != nil {
		return fail(l, "list_payments", err)
	}

	payments, err := h.Svc.ListPayments(ctx, email)
	if err != nil {
		return fail(l, "list_payments", err)
	}
	return c.JSON(http.StatusOK, payments)
}

// bindOwnPayment binds the body and pins its email to the caller.
func bindOwnPayment(c echo.Context) (transport.PaymentRequest, error) {
	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	caller := auth.Email(c)
	if req.Email == "" {
		req.Email = caller
	}
	return req, nil
}

func (h *PaymentHTTP) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm")

	if !h.DirectEnabled {
		l.Warn("confirm_payment_error", "status", http.StatusForbidden, "reason", "direct payments disabled")
		return echo.NewHTTPError(http.StatusForbidden, "direct payments disabled")
	}

	req, err := bindOwnPayment(c)
	if err != nil {
		return badBody(l, "confirm_payment", err)
	}
	// anonymous callers are trusted for the email they send
	caller := auth.Email(c)
	if caller != "" {
		if err := service.RequireSelf(caller, req.Email); err != nil {
			return fail(l, "confirm_payment", err)
		}
	}

	res, err := h.Svc.ConfirmPayment(ctx, req)
	if err != nil {
		return fail(l, "confirm_payment", err)
	}

	l.Info("confirm_payment_success", "trust", "client", "anonymous", caller == "", "deleted", res.DeletedResult.DeletedCount)
	return c.JSON(http.StatusOK, res)
}

func (h *PaymentHTTP) CreateGatewaySession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_session")

	req, err := bindOwnPayment(c)
	if err != nil {
		return badBody(l, "create_gateway_session", err)
	}
	if err := service.RequireSelf(auth.Email(c), req.Email); err != nil {
		return fail(l, "create_gateway_session", err)
	}

	url, err := h.Svc.CreateGatewaySession(ctx, req)
	if err != nil {
		return fail(l, "create_gateway_session", err)
	}

	l.Info("create_gateway_session_success")
	return c.JSON(http.StatusOK, transport.GatewaySessionResponse{GatewayURL: url})
}

// GatewaySuccess receives the redirect gateway's success post. The body is
// not trusted: only the val_id is used, and it is checked with the gateway.
func (h *PaymentHTTP) GatewaySuccess(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.gateway_success")

	var cb gatewayCallback
	if err := c.Bind(&cb); err != nil {
		return badBody(l, "gateway_success", err)
	}

	redirect, err := h.Svc.HandleGatewayCallback(ctx, cb.ValID)
	if err != nil {
		return fail(l, "gateway_success", err)
	}

	l.Info("gateway_success_success", "val_id", cb.ValID)
	return c.Redirect(http.StatusFound, redirect)
}

// GatewayIPN receives the gateway's server-to-server notification. It runs the
// same validate-then-reconcile path as GatewaySuccess, so whichever of the two
// arrives second is a no-op.
func (h *PaymentHTTP) GatewayIPN(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.gateway_ipn")

	var cb gatewayCallback
	if err := c.Bind(&cb); err != nil {
		return badBody(l, "gateway_ipn", err)
	}

	if _, err := h.Svc.HandleGatewayCallback(ctx, cb.ValID); err != nil {
		return fail(l, "gateway_ipn", err)
	}

	l.Info("gateway_ipn_success", "val_id", cb.ValID)
	return c.JSON(http.StatusOK, transport.IPNResponse{Status: "ok"})
}
