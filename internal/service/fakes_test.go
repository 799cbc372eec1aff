package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NureAlam68/magical-meals-server/internal/gateway/sslcommerz"
	"github.com/NureAlam68/magical-meals-server/internal/mail"
	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/testutil"
)

type fakeCard struct {
	amount   int64
	currency string
	err      error
}

func (f *fakeCard) CreatePaymentIntent(_ context.Context, amountCents int64, currency string) (string, error) {
	f.amount, f.currency = amountCents, currency
	if f.err != nil {
		return "", f.err
	}
	return "pi_secret_123", nil
}

type fakeRedirect struct {
	initErr     error
	validations map[string]*sslcommerz.Validation
	validateErr error
	sessions    []sslcommerz.SessionRequest
}

func (f *fakeRedirect) InitSession(_ context.Context, req sslcommerz.SessionRequest) (*sslcommerz.Session, error) {
	f.sessions = append(f.sessions, req)
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &sslcommerz.Session{Status: "SUCCESS", GatewayPageURL: "https://pay.test/" + req.TransactionID}, nil
}

func (f *fakeRedirect) Validate(_ context.Context, valID string) (*sslcommerz.Validation, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if v, ok := f.validations[valID]; ok {
		return v, nil
	}
	return &sslcommerz.Validation{Status: "INVALID_TRANSACTION"}, nil
}

type fakeMailer struct {
	sent chan mail.Message
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan mail.Message, 8)}
}

func (f *fakeMailer) Send(_ context.Context, m mail.Message) error {
	f.sent <- m
	return f.err
}

type published struct {
	topic string
	key   string
	event Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, key: key, event: event.(Event)})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Type)
	}
	return out
}

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testutil.NewDB(t))
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) models.User {
	t.Helper()
	u := models.User{Name: "user", Email: email, Role: role}
	require.NoError(t, r.DB.Create(&u).Error)
	return u
}

func seedMenuItem(t *testing.T, r *repo.GormRepo, name, category string, price float64) models.MenuItem {
	t.Helper()
	m := models.MenuItem{Name: name, Category: category, Price: price}
	require.NoError(t, r.DB.Create(&m).Error)
	return m
}

func seedCart(t *testing.T, r *repo.GormRepo, email string, menu models.MenuItem) models.CartItem {
	t.Helper()
	c := models.CartItem{Email: email, MenuID: menu.ID, Name: menu.Name, Price: menu.Price}
	require.NoError(t, r.DB.Create(&c).Error)
	return c
}
