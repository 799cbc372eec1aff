package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	StripeSecretKey string

	MailgunAPIKey string
	MailgunDomain string
	MailFrom      string

	SSLStoreID       string
	SSLStorePassword string
	SSLBaseURL       string
	GatewayTimeout   time.Duration

	ServerURL              string
	ClientURL              string
	PaymentSuccessRedirect string

	DirectPaymentsEnabled bool
	PublicCarts           bool
	PaymentsRequireToken  bool
}

// Load reads .env when present and falls back to the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "magical-meals"),
		ServerPort:  EnvIntDefault("PORT", 4000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv(EnvDatabaseURL),

		JWTSecret: []byte(os.Getenv(EnvJWTSecret)),
		TokenTTL:  EnvDurationDefault("TOKEN_TTL", 30*24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv(EnvESURL),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "menu"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		MailgunAPIKey: os.Getenv("MAIL_GUN_API_KEY"),
		MailgunDomain: os.Getenv("MAIL_SENDING_DOMAIN"),
		MailFrom:      EnvDefault("MAIL_FROM", "Magical Meals <no-reply@magical-meals.app>"),

		SSLStoreID:       os.Getenv("SSL_STORE_ID"),
		SSLStorePassword: os.Getenv("SSL_STORE_PASSWORD"),
		SSLBaseURL:       EnvDefault("SSL_BASE_URL", "https://sandbox.sslcommerz.com"),
		GatewayTimeout:   EnvDurationDefault("GATEWAY_TIMEOUT", 30*time.Second),

		ServerURL:              EnvDefault("SERVER_URL", "http://localhost:4000"),
		ClientURL:              EnvDefault("CLIENT_URL", "http://localhost:5173"),
		PaymentSuccessRedirect: EnvDefault("PAYMENT_SUCCESS_REDIRECT", "https://magical-meals.web.app/dashboard/cart"),

		DirectPaymentsEnabled: EnvBoolDefault("DIRECT_PAYMENTS_ENABLED", true),
		PublicCarts:           EnvBoolDefault("PUBLIC_CARTS", false),
		PaymentsRequireToken:  EnvBoolDefault("PAYMENTS_REQUIRE_TOKEN", false),
	}
}

// LoadServer is Load plus the keys every server process needs.
func LoadServer() (Config, error) {
	cfg := Load()
	return cfg, cfg.Require(EnvDatabaseURL, EnvJWTSecret)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
