// Package sslcommerz talks to the SSLCommerz hosted payment gateway: it opens
// checkout sessions and validates completed transactions server to server.
package sslcommerz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	StatusValid   = "VALID"
	sessionOK     = "SUCCESS"
	initPath      = "/gwprocess/v4/api.php"
	validatorPath = "/validator/api/validationserverAPI.php"
)

var ErrSessionRejected = errors.New("sslcommerz: session rejected")

type Client struct {
	baseURL       string
	storeID       string
	storePassword string
	httpClient    *http.Client
}

func NewClient(baseURL, storeID, storePassword string, timeout time.Duration) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		storeID:       storeID,
		storePassword: storePassword,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type SessionRequest struct {
	TransactionID string
	Amount        float64
	Currency      string

	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	City          string
	Postcode      string
	Country       string

	ProductName     string
	ProductCategory string
}

type Session struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type Validation struct {
	Status      string `json:"status"`
	TranID      string `json:"tran_id"`
	ValID       string `json:"val_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	BankTranID  string `json:"bank_tran_id"`
	CardType    string `json:"card_type"`
	RiskLevel   string `json:"risk_level"`
	RiskTitle   string `json:"risk_title"`
	TranDate    string `json:"tran_date"`
	ErrorReason string `json:"error"`
}

func (v *Validation) IsValid() bool {
	return v != nil && v.Status == StatusValid
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (r SessionRequest) form(storeID, storePassword string) url.Values {
	city := withDefault(r.City, "Dhaka")
	postcode := withDefault(r.Postcode, "1000")
	country := withDefault(r.Country, "Bangladesh")
	name := withDefault(r.CustomerName, "Customer Name")
	phone := withDefault(r.CustomerPhone, "01711111111")

	f := url.Values{}
	f.Set("store_id", storeID)
	f.Set("store_passwd", storePassword)
	f.Set("total_amount", strconv.FormatFloat(r.Amount, 'f', 2, 64))
	f.Set("currency", withDefault(r.Currency, "BDT"))
	f.Set("tran_id", r.TransactionID)
	f.Set("success_url", r.SuccessURL)
	f.Set("fail_url", r.FailURL)
	f.Set("cancel_url", r.CancelURL)
	f.Set("ipn_url", r.IPNURL)
	f.Set("shipping_method", "NO")
	f.Set("product_name", withDefault(r.ProductName, "Food"))
	f.Set("product_category", withDefault(r.ProductCategory, "Food"))
	f.Set("product_profile", "general")
	f.Set("cus_name", name)
	f.Set("cus_email", r.CustomerEmail)
	f.Set("cus_add1", city)
	f.Set("cus_add2", city)
	f.Set("cus_city", city)
	f.Set("cus_state", city)
	f.Set("cus_postcode", postcode)
	f.Set("cus_country", country)
	f.Set("cus_phone", phone)
	f.Set("cus_fax", phone)
	f.Set("ship_name", name)
	f.Set("ship_add1", city)
	f.Set("ship_add2", city)
	f.Set("ship_city", city)
	f.Set("ship_state", city)
	f.Set("ship_postcode", postcode)
	f.Set("ship_country", country)
	return f
}

// InitSession opens a hosted checkout session. A session the gateway refuses
// is reported as ErrSessionRejected.
func (c *Client) InitSession(ctx context.Context, r SessionRequest) (*Session, error) {
	body := r.form(c.storeID, c.storePassword).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initPath, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var s Session
	if err := c.do(req, &s); err != nil {
		return nil, err
	}
	if s.Status != sessionOK || s.GatewayPageURL == "" {
		return nil, fmt.Errorf("%w: status=%q reason=%q", ErrSessionRejected, s.Status, s.FailedReason)
	}
	return &s, nil
}

// Validate asks the gateway whether the transaction behind valID is genuine.
func (c *Client) Validate(ctx context.Context, valID string) (*Validation, error) {
	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", c.storeID)
	q.Set("store_passwd", c.storePassword)
	q.Set("v", "1")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+validatorPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var v Validation
	if err := c.do(req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sslcommerz: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
