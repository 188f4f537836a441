package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reservaMesa/internal/config"
	adminusecase "reservaMesa/internal/modules/admin/application/usecase"
	admininfra "reservaMesa/internal/modules/admin/infrastructure"
	admintransport "reservaMesa/internal/modules/admin/interface"
	documenttransport "reservaMesa/internal/modules/documents/interface"
	"reservaMesa/internal/modules/reservations/application/handler"
	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/application/usecase"
	"reservaMesa/internal/modules/reservations/infrastructure"
	transport "reservaMesa/internal/modules/reservations/interface"
	restaurants "reservaMesa/internal/modules/restaurants/domain"
	tables "reservaMesa/internal/modules/tables/domain"
	tabletransport "reservaMesa/internal/modules/tables/interface"
	"reservaMesa/internal/platform/broker"
	"reservaMesa/internal/platform/database"
	"reservaMesa/internal/shared/auth"
	"reservaMesa/internal/shared/httputil"
	"reservaMesa/internal/shared/logging"
	"reservaMesa/internal/shared/metrics"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, logWriter, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	if err := run(cfg, logWriter); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logWriter io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.OpenPostgres(ctx, database.PostgresConfig{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	var cache port.VoucherCache
	if cfg.RedisEnabled() {
		client, err := database.OpenRedis(ctx, database.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		cache = infrastructure.NewRedisVoucherCache(client, cfg.Redis.VoucherCacheTTL)
		slog.Info("voucher cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	inventory, err := tables.NewInventory(
		tables.UniformTables(cfg.Tables.Count, cfg.Tables.Capacity, tables.NormalizeArea(cfg.Tables.Area)),
		cfg.Tables.Capacity,
	)
	if err != nil {
		return fmt.Errorf("build table inventory: %w", err)
	}

	openDays, err := restaurants.ParseSchedule(cfg.Reservation.OpenDays)
	if err != nil {
		return fmt.Errorf("parse OPEN_DAYS: %w", err)
	}
	slog.Info("opening days resolved", slog.Any("days", openDays.Days()))

	hub := infrastructure.NewHub()
	registry := infrastructure.NewHandlerRegistry()
	registry.Register(handler.NewVoucherIssuedHandler(cfg.Kafka.VoucherTopic, hub))

	// Kafka when brokers are configured, in-process dispatch otherwise.
	var publisher port.EventPublisher
	if cfg.KafkaEnabled() {
		producer := broker.NewKafkaProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer
		// Every instance serves its own websocket clients, so each one needs its own group.
		groupID := cfg.Kafka.GroupID
		if host, err := os.Hostname(); err == nil && host != "" {
			groupID += "-" + host
		}
		broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, groupID, registry.Topics())
		slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", groupID))
	} else {
		publisher = infrastructure.NewLocalPublisher(registry)
		slog.Info("kafka disabled, dispatching events in process")
	}

	gateway, err := newPaymentGateway(cfg)
	if err != nil {
		return err
	}
	slog.Info("payment provider selected", slog.String("provider", gateway.Name()))

	// Use cases
	repo := infrastructure.NewPostgresReservationRepository(db)
	confirmUC := usecase.NewConfirmPaymentUseCase(repo, cache, publisher, cfg.Reservation.VoucherPrefix, cfg.Kafka.VoucherTopic)
	createUC := usecase.NewCreateReservationUseCase(repo, gateway, publisher, inventory, confirmUC, usecase.CreateReservationConfig{
		DepositCents:     cfg.Payment.DepositCents,
		MaxPartySize:     cfg.Reservation.MaxPartySize,
		SuccessURL:       cfg.Payment.SuccessURL,
		CancelURL:        cfg.Payment.CancelURL,
		ReservationTopic: cfg.Kafka.ReservationTopic,
		OpenDays:         openDays,
	})
	cancelUC := usecase.NewCancelPaymentUseCase(repo)
	getVoucherUC := usecase.NewGetVoucherUseCase(repo, cache)
	listUC := usecase.NewListReservationsUseCase(repo)

	issuer, err := auth.NewIssuer(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenTTL, cfg.Security.RefreshTokenTTL)
	if err != nil {
		return err
	}
	validator := auth.NewJWTValidator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
	admins := admininfra.NewPostgresAdminRepository(db)

	ipExtractor, err := httputil.NewIPExtractor(cfg.Security.TrustedProxies)
	if err != nil {
		return fmt.Errorf("%w: TRUSTED_PROXIES: %v", config.ErrInvalidConfig, err)
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = ipExtractor
	e.Logger.SetOutput(logWriter)
	e.HTTPErrorHandler = httputil.HTTPErrorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/healthz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return httputil.Fail(c, http.StatusServiceUnavailable, httputil.ErrorBody{Message: "database unavailable", Code: httputil.CodeInternal})
		}
		return httputil.OK(c, http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	documenttransport.RegisterRoutes(api)
	tabletransport.NewHandler(inventory).RegisterRoutes(api)
	transport.NewHandler(createUC, getVoucherUC, confirmUC, cancelUC, transport.WebhookConfig{
		AsaasToken:   cfg.Payment.AsaasWebhookToken,
		StripeSecret: cfg.Payment.StripeWebhookSecret,
	}).RegisterRoutes(api)

	adminGroup := api.Group("/admin")
	admintransport.NewAuthHandler(
		adminusecase.NewAuthenticateUseCase(admins, issuer),
		adminusecase.NewRefreshUseCase(admins, issuer, validator),
		httputil.RateLimitConfig{
			PerMinute:   cfg.Security.LoginRatePerMinute,
			Burst:       cfg.Security.LoginBurst,
			IPExtractor: ipExtractor,
		},
	).RegisterRoutes(adminGroup)
	transport.NewAdminHandler(listUC).RegisterRoutes(adminGroup.Group("", auth.RequireRole(validator, auth.RoleAdmin)))

	e.GET("/ws/vouchers/:paymentId", transport.NewVoucherWebsocketHandler(hub, getVoucherUC, cfg.Kafka.VoucherTopic))

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

func newPaymentGateway(cfg *config.Config) (port.PaymentGateway, error) {
	switch cfg.Payment.Provider {
	case config.ProviderAsaas:
		return infrastructure.NewAsaasGateway(cfg.Payment.AsaasBaseURL, cfg.Payment.AsaasAPIKey, cfg.Payment.Timeout, nil), nil
	case config.ProviderStripe:
		return infrastructure.NewStripeGateway(cfg.Payment.StripeSecretKey, nil), nil
	case config.ProviderDemo:
		return infrastructure.NewDemoGateway(), nil
	default:
		return nil, fmt.Errorf("%w: unknown payment provider %q", config.ErrInvalidConfig, cfg.Payment.Provider)
	}
}
