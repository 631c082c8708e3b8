package integration_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/app"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/payment"
	"github.com/metinatakli/showtime-booking/internal/repository"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App      *app.Application
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Bookings *booking.Service
	Ledger   *payment.Ledger
}

// newTestApp wires the application against the postgres catalog and the
// redis event channel. Payments always succeed unless successRate says
// otherwise.
func newTestApp(cfg app.Config, successRate float64) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	catalog := repository.NewPostgresCatalogRepository(db)
	publisher := events.NewRedisPublisher(redisClient, cfg.Redis.Channel)
	ledger := payment.NewLedger(payment.NewSimulatedProcessor(successRate, 0))
	bookings := booking.NewService(logger, ledger, publisher)

	application := app.NewApp(cfg, logger, validator, catalog, bookings, ledger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = application.SyncCatalog(ctx)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	return &TestApp{
		App:      application,
		DB:       db,
		Redis:    redisClient,
		Bookings: bookings,
		Ledger:   ledger,
	}, nil
}

func (a *TestApp) Close() {
	a.Redis.Close()
	a.DB.Close()
}
