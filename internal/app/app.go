package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/handler"
	"github.com/metinatakli/showtime-booking/internal/middleware"
	"github.com/metinatakli/showtime-booking/internal/payment"
	"github.com/metinatakli/showtime-booking/internal/repository"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/metinatakli/showtime-booking/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "showtime-booking-api"

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate

	catalog  domain.CatalogRepository
	bookings *booking.Service
	ledger   *payment.Ledger
	health   *handler.HealthcheckHandler
}

type Config struct {
	Port             int
	Env              string
	Catalog          string
	LockTimeout      time.Duration
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	Kafka            KafkaConfig
	Payment          PaymentConfig
	Stripe           StripeConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	Channel      string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

type PaymentConfig struct {
	Provider    string
	SuccessRate float64
	Latency     time.Duration
}

type StripeConfig struct {
	SecretKey     string
	Currency      string
	PaymentMethod string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.Catalog, "catalog", "memory", "Show catalog source (memory|postgres)")
	flag.DurationVar(&cfg.LockTimeout, "lock-timeout", 5*time.Second, "Maximum wait for a show's seat lock")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL, booking events are discarded when empty")
	flag.StringVar(&cfg.Redis.Channel, "redis-channel", events.DefaultChannel, "Redis channel for booking events")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Kafka.Brokers, "kafka-brokers", "", "Comma separated Kafka brokers, booking events are also written there when set")
	flag.StringVar(&cfg.Kafka.Topic, "kafka-topic", events.DefaultTopic, "Kafka topic for booking events")

	flag.StringVar(&cfg.Payment.Provider, "payment-provider", "simulated", "Payment provider (simulated|stripe)")
	flag.Float64Var(&cfg.Payment.SuccessRate, "payment-success-rate", payment.DefaultSuccessRate, "Share of simulated payments that succeed")
	flag.DurationVar(&cfg.Payment.Latency, "payment-latency", payment.DefaultLatency, "Simulated payment gateway latency")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.Currency, "stripe-currency", payment.DefaultCurrency, "Stripe charge currency")
	flag.StringVar(&cfg.Stripe.PaymentMethod, "stripe-payment-method", payment.DefaultPaymentMethod, "Stripe payment method to confirm with")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	bootstrap := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := bootstrap.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	catalog, closeCatalog, err := newCatalog(cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	processor, err := newPaymentProcessor(cfg)
	if err != nil {
		return err
	}

	ledger := payment.NewLedger(processor)
	bookings := booking.NewService(logger, ledger, publisher)

	app := NewApp(cfg, logger, appvalidator.NewValidator(), catalog, bookings, ledger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = app.SyncCatalog(ctx)
	if err != nil {
		return err
	}

	return app.run()
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	catalog domain.CatalogRepository,
	bookings *booking.Service,
	ledger *payment.Ledger) *Application {

	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}

	return &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		catalog:   catalog,
		bookings:  bookings,
		ledger:    ledger,
		health:    handler.NewHealthcheckHandler(version, cfg.Env),
	}
}

// SyncCatalog registers every catalog show that the booking service does not
// know about yet.
func (app *Application) SyncCatalog(ctx context.Context) error {
	shows, err := app.catalog.ListShows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load show catalog: %w", err)
	}

	registered := 0

	for _, show := range shows {
		err = app.bookings.RegisterShow(show)
		if errors.Is(err, domain.ErrEditConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to register show %d: %w", show.ID, err)
		}

		registered++
	}

	app.logger.Info("show catalog loaded", "shows", len(shows), "registered", registered)

	return nil
}

func newCatalog(cfg Config) (domain.CatalogRepository, func(), error) {
	switch cfg.Catalog {
	case "memory":
		return repository.NewMemoryCatalog(repository.DemoShows(time.Now())...), func() {}, nil
	case "postgres":
		db, err := NewDatabasePool(cfg)
		if err != nil {
			return nil, nil, err
		}

		return repository.NewPostgresCatalogRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog)
	}
}

// newPublisher builds a publisher for every configured event backend.
// Without any, booking events are discarded.
func newPublisher(cfg Config) (domain.EventPublisher, func(), error) {
	var (
		fanout  events.Fanout
		closers []func()
	)

	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if cfg.Redis.URL != "" {
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}

		fanout = append(fanout, events.NewRedisPublisher(client, cfg.Redis.Channel))
		closers = append(closers, func() { client.Close() })
	}

	if cfg.Kafka.Brokers != "" {
		writer := events.NewKafkaWriter(strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic)
		publisher := events.NewKafkaPublisher(writer, cfg.Kafka.Topic)

		fanout = append(fanout, publisher)
		closers = append(closers, func() { publisher.Close() })
	}

	switch len(fanout) {
	case 0:
		return events.NopPublisher{}, closeAll, nil
	case 1:
		return fanout[0], closeAll, nil
	default:
		return fanout, closeAll, nil
	}
}

func newPaymentProcessor(cfg Config) (domain.PaymentProcessor, error) {
	switch cfg.Payment.Provider {
	case "simulated":
		return payment.NewSimulatedProcessor(cfg.Payment.SuccessRate, cfg.Payment.Latency), nil
	case "stripe":
		if cfg.Stripe.SecretKey == "" {
			return nil, errors.New("stripe payment provider requires -stripe-key")
		}

		stripe.Key = cfg.Stripe.SecretKey

		return payment.NewStripeProcessor(cfg.Stripe.Currency, cfg.Stripe.PaymentMethod), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Payment.Provider)
	}
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(middleware.NotFoundHandler)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.RequestLogger(app.logger))
	r.Use(middleware.RecoverPanic(app.logger))
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.health.GetHealth)
		r.Get("/openapi.json", app.GetOpenAPIDocument)
		r.Get("/prices", app.GetPriceList)

		r.Get("/shows", app.ListShows)
		r.Route("/shows/{showId}", func(r chi.Router) {
			r.Get("/seats", app.GetAvailableSeats)
			r.Post("/seats/availability", app.CheckSeatAvailability)
			r.Get("/bookings", app.GetBookingsForShow)
		})

		r.Post("/bookings", app.CreateBooking)
		r.Route("/bookings/{bookingId}", func(r chi.Router) {
			r.Get("/", app.GetBookingDetails)
			r.Delete("/", app.CancelBooking)
			r.Post("/payment", app.ConfirmPayment)
		})

		r.Route("/customers/{customerId}", func(r chi.Router) {
			r.Get("/bookings", app.GetBookingsForCustomer)
			r.Get("/payments", app.GetPaymentsForCustomer)
		})
	})

	return r
}
