package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NureAlam68/magical-meals-server/internal/gateway/sslcommerz"
	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/mail"
	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/mykafka"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

const (
	cardCurrency = "usd"
	mailTimeout  = 10 * time.Second
)

type CardGateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

type RedirectGateway interface {
	InitSession(ctx context.Context, req sslcommerz.SessionRequest) (*sslcommerz.Session, error)
	Validate(ctx context.Context, valID string) (*sslcommerz.Validation, error)
}

// GatewayURLs are the addresses the redirect gateway sends the browser (or
// its IPN call) back to.
type GatewayURLs struct {
	Success string
	Fail    string
	Cancel  string
	IPN     string
}

type PaymentService struct {
	Repo     *repo.GormRepo
	Card     CardGateway
	Redirect RedirectGateway
	Mailer   mail.Mailer
	Events   EventPublisher

	URLs            GatewayURLs
	SuccessRedirect string

	NewTransactionID func() string
	Now              func() time.Time
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *PaymentService) newTransactionID() string {
	if s.NewTransactionID != nil {
		return s.NewTransactionID()
	}
	return primitive.NewObjectID().Hex()
}

// AmountCents converts a decimal price to the smallest currency unit.
func AmountCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreatePaymentIntent asks the card gateway for a client secret. Nothing is
// stored locally.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	secret, err := s.Card.CreatePaymentIntent(ctx, AmountCents(price), cardCurrency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return secret, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, email string) ([]models.Payment, error) {
	return s.Repo.ListPaymentsByEmail(ctx, email)
}

type paymentInput struct {
	payment models.Payment
	cartIDs []uuid.UUID
	menuIDs []uuid.UUID
}

func (s *PaymentService) prepare(req transport.PaymentRequest) (paymentInput, error) {
	if strings.TrimSpace(req.Email) == "" {
		return paymentInput{}, fmt.Errorf("%w: email required", ErrValidation)
	}
	if req.Price < 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return paymentInput{}, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	cartIDs, err := parseIDs(req.CartIDs, "cartId")
	if err != nil {
		return paymentInput{}, err
	}
	menuIDs, err := parseIDs(req.MenuItemIDs, "menuItemId")
	if err != nil {
		return paymentInput{}, err
	}

	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}

	return paymentInput{
		payment: models.Payment{
			Email:         req.Email,
			Price:         req.Price,
			TransactionID: req.TransactionID,
			Date:          date,
			CartIDs:       nonNil(req.CartIDs),
			MenuItemIDs:   nonNil(req.MenuItemIDs),
		},
		cartIDs: cartIDs,
		menuIDs: menuIDs,
	}, nil
}

// ConfirmPayment records a payment the client reports as completed and clears
// the paid cart items. The transaction id is taken on trust.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req transport.PaymentRequest) (transport.PaymentResult, error) {
	l := logging.FromContext(ctx)

	in, err := s.prepare(req)
	if err != nil {
		return transport.PaymentResult{}, err
	}
	switch req.Status {
	case "", models.PaymentStatusPending, models.PaymentStatusSuccess:
	default:
		return transport.PaymentResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	p := in.payment
	p.Status = req.Status
	p.Gateway = models.GatewayCard

	l.Info("payment_direct", "trust", "client", "email", p.Email, "transaction_id", p.TransactionID)

	if err := s.Repo.CreatePayment(ctx, &p, in.menuIDs); err != nil {
		return transport.PaymentResult{}, err
	}
	deleted, err := s.Repo.DeleteCartItems(ctx, p.Email, in.cartIDs)
	if err != nil {
		return transport.PaymentResult{}, fmt.Errorf("payment %s stored, cart cleanup: %w", p.ID, err)
	}

	publish(ctx, s.Events, mykafka.TopicPayments, p.TransactionID, "payment_created", p)
	s.sendConfirmation(l, p)

	return transport.PaymentResult{
		PaymentResult: transport.Inserted(p.ID.String()),
		DeletedResult: transport.Deleted(deleted),
	}, nil
}

// CreateGatewaySession opens a redirect gateway session and stores the
// payment with no status. Nothing is stored if the gateway refuses.
func (s *PaymentService) CreateGatewaySession(ctx context.Context, req transport.PaymentRequest) (string, error) {
	in, err := s.prepare(req)
	if err != nil {
		return "", err
	}
	if in.payment.Price <= 0 {
		return "", fmt.Errorf("%w: price must be > 0", ErrValidation)
	}

	p := in.payment
	p.TransactionID = s.newTransactionID()
	p.Gateway = models.GatewaySSLCommerz
	p.Status = ""

	session, err := s.Redirect.InitSession(ctx, sslcommerz.SessionRequest{
		TransactionID: p.TransactionID,
		Amount:        p.Price,
		SuccessURL:    s.URLs.Success,
		FailURL:       s.URLs.Fail,
		CancelURL:     s.URLs.Cancel,
		IPNURL:        s.URLs.IPN,
		CustomerEmail: p.Email,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.Repo.CreatePayment(ctx, &p, in.menuIDs); err != nil {
		return "", err
	}
	publish(ctx, s.Events, mykafka.TopicPayments, p.TransactionID, "payment_created", p)

	return session.GatewayPageURL, nil
}

// HandleGatewayCallback validates valID with the gateway and, when genuine,
// marks the matching payment successful and clears its cart items. Repeated
// callbacks are harmless: only the first one transitions the payment.
func (s *PaymentService) HandleGatewayCallback(ctx context.Context, valID string) (string, error) {
	l := logging.FromContext(ctx)

	if strings.TrimSpace(valID) == "" {
		return "", fmt.Errorf("%w: val_id required", ErrValidation)
	}

	v, err := s.Redirect.Validate(ctx, valID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if !v.IsValid() {
		l.Warn("payment_validation_rejected", "val_id", valID, "gateway_status", v.Status, "transaction_id", v.TranID)
		return "", ErrGatewayValidationFailed
	}

	transitioned, err := s.Repo.MarkPaymentStatus(ctx, v.TranID, models.GatewaySSLCommerz, models.PaymentStatusSuccess)
	if err != nil {
		return "", err
	}
	p, err := s.Repo.FindPaymentByTransaction(ctx, v.TranID, models.GatewaySSLCommerz)
	if err != nil {
		return "", notFound(err, "payment "+v.TranID)
	}

	cartIDs, err := parseIDs(p.CartIDs, "cartId")
	if err != nil {
		return "", err
	}
	deleted, err := s.Repo.DeleteCartItems(ctx, p.Email, cartIDs)
	if err != nil {
		return "", fmt.Errorf("payment %s marked success, cart cleanup: %w", p.TransactionID, err)
	}

	l.Info("payment_reconciled", "transaction_id", p.TransactionID, "transitioned", transitioned, "cart_deleted", deleted)
	if transitioned {
		publish(ctx, s.Events, mykafka.TopicPayments, p.TransactionID, "payment_succeeded", p)
		s.sendConfirmation(l, *p)
	}

	return s.SuccessRedirect, nil
}

// sendConfirmation mails the buyer in the background. Failures are logged.
func (s *PaymentService) sendConfirmation(l *slog.Logger, p models.Payment) {
	if s.Mailer == nil {
		return
	}
	msg, err := mail.OrderConfirmation(p.Email, p.TransactionID, p.Price)
	if err != nil {
		l.Warn("payment_mail_error", "transaction_id", p.TransactionID, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.Mailer.Send(ctx, msg); err != nil {
			l.Warn("payment_mail_error", "transaction_id", p.TransactionID, "error", err)
			return
		}
		l.Info("payment_mail_sent", "transaction_id", p.TransactionID)
	}()
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
