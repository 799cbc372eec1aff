package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/NureAlam68/magical-meals-server/internal/config"
	"github.com/NureAlam68/magical-meals-server/internal/db"
	"github.com/NureAlam68/magical-meals-server/internal/es"
	"github.com/NureAlam68/magical-meals-server/internal/gateway/card"
	"github.com/NureAlam68/magical-meals-server/internal/gateway/sslcommerz"
	"github.com/NureAlam68/magical-meals-server/internal/httpserver"
	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/mail"
	"github.com/NureAlam68/magical-meals-server/internal/middleware/auth"
	loggingmw "github.com/NureAlam68/magical-meals-server/internal/middleware/logging"
	"github.com/NureAlam68/magical-meals-server/internal/mykafka"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	gdb, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	if err := db.Migrate(context.Background(), gdb); err != nil {
		return err
	}

	var events service.EventPublisher = mykafka.Discard{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	var index service.MenuIndex
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg, logger)
		if err != nil {
			logger.Warn("es_disabled", "error", err)
		} else {
			index = es.NewMenuIndex(client, cfg.ESIndex)
		}
	}

	var mailer mail.Mailer = mail.Log{Logger: logger}
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		mailer = mail.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)
	} else {
		logger.Warn("mail_disabled", "reason", "MAIL_GUN_API_KEY or MAIL_SENDING_DOMAIN not set")
	}

	e := newServer(cfg, logger, gdb, events, index, mailer)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GatewayTimeout + 15*time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close", "error", err)
		}
	}

	logger.Info("shutdown_complete")
	return nil
}

func newServer(cfg config.Config, logger *slog.Logger, gdb *gorm.DB, events service.EventPublisher, index service.MenuIndex, mailer mail.Mailer) *echo.Echo {
	r := repo.New(gdb)

	authSvc := &service.AuthService{Repo: r, Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}
	paySvc := &service.PaymentService{
		Repo:     r,
		Card:     card.NewStripe(cfg.StripeSecretKey),
		Redirect: sslcommerz.NewClient(cfg.SSLBaseURL, cfg.SSLStoreID, cfg.SSLStorePassword, cfg.GatewayTimeout),
		Mailer:   mailer,
		Events:   events,
		URLs: service.GatewayURLs{
			Success: strings.TrimRight(cfg.ServerURL, "/") + "/success",
			Fail:    strings.TrimRight(cfg.ClientURL, "/") + "/fail",
			Cancel:  strings.TrimRight(cfg.ClientURL, "/") + "/cancel",
			IPN:     strings.TrimRight(cfg.ServerURL, "/") + "/ipn",
		},
		SuccessRedirect: cfg.PaymentSuccessRedirect,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.ClientURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	httpserver.Register(e, &httpserver.Deps{
		DB:       gdb,
		Gate:     auth.NewGate(authSvc),
		Auth:     &httpserver.AuthHTTP{Svc: authSvc},
		Users:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Events: events}, Auth: authSvc},
		Menu:     &httpserver.MenuHTTP{Svc: &service.MenuService{Repo: r, Index: index, Events: events}},
		Carts:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}, Public: cfg.PublicCarts},
		Payments: &httpserver.PaymentHTTP{Svc: paySvc, DirectEnabled: cfg.DirectPaymentsEnabled, RequireToken: cfg.PaymentsRequireToken},
		Stats:    &httpserver.StatsHTTP{Svc: &service.StatsService{Repo: r}},
	})
	return e
}
