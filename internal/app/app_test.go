package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCatalogIsIdempotent(t *testing.T) {
	app := newTestApplication(t, new(mocks.MockPaymentProcessor))

	require.NoError(t, app.SyncCatalog(context.Background()))
	assert.Len(t, app.bookings.Shows(), 3)
}

func TestSyncCatalogPropagatesCatalogErrors(t *testing.T) {
	app := newTestApplication(t, new(mocks.MockPaymentProcessor))
	app.catalog = &mocks.MockCatalogRepo{
		ListShowsFunc: func(ctx context.Context) ([]domain.Show, error) {
			return nil, errors.New("connection refused")
		},
	}

	err := app.SyncCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestHeldShowLockReturnsServiceUnavailable(t *testing.T) {
	registry := booking.NewShowLockRegistry()
	app := newTestApplication(t, new(mocks.MockPaymentProcessor), booking.WithRegistry(registry))
	app.config.LockTimeout = 20 * time.Millisecond

	lock := registry.LockFor(1)
	require.True(t, lock.TryLock())
	defer lock.Unlock()

	w, r := executeRequest(t, http.MethodPost, "/v1/bookings",
		api.CreateBookingRequest{CustomerId: "alice", ShowId: 1, SeatIds: []int{1}})
	serve(app, w, r)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, r = executeRequest(t, http.MethodPost, "/v1/bookings",
		api.CreateBookingRequest{CustomerId: "alice", ShowId: 2, SeatIds: []int{1}})
	serve(app, w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUnknownRoutes(t *testing.T) {
	app := newTestApplication(t, new(mocks.MockPaymentProcessor))

	w, r := executeRequest(t, http.MethodGet, "/v1/nothing-here", nil)
	serve(app, w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, r = executeRequest(t, http.MethodPut, "/v1/shows", nil)
	serve(app, w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestOpenAPIDocumentIsServed(t *testing.T) {
	app := newTestApplication(t, new(mocks.MockPaymentProcessor))

	w, r := executeRequest(t, http.MethodGet, "/v1/openapi.json", nil)
	serve(app, w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/bookings/{bookingId}/payment")
}

func TestHealthcheckRoute(t *testing.T) {
	app := newTestApplication(t, new(mocks.MockPaymentProcessor))

	w, r := executeRequest(t, http.MethodGet, "/v1/healthcheck", nil)
	serve(app, w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.HealthcheckResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "test", resp.SystemInfo.Environment)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debug, info bytes.Buffer

	handler := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	logger := slog.New(handler).With("request_id", "abc").WithGroup("booking")

	assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))

	logger.Debug("lock acquired", "show_id", 1)
	logger.Info("booking created", "show_id", 2)

	assert.Contains(t, debug.String(), "lock acquired")
	assert.Contains(t, debug.String(), "booking created")
	assert.NotContains(t, info.String(), "lock acquired")
	assert.Contains(t, info.String(), "request_id=abc")
	assert.Contains(t, info.String(), "booking.show_id=2")
}

func TestNewPublisherPicksConfiguredBackends(t *testing.T) {
	publisher, closePublisher, err := newPublisher(Config{})
	require.NoError(t, err)
	defer closePublisher()

	assert.IsType(t, events.NopPublisher{}, publisher)

	publisher, closeKafka, err := newPublisher(Config{Kafka: KafkaConfig{Brokers: "localhost:9092", Topic: "bookings"}})
	require.NoError(t, err)
	defer closeKafka()

	kafkaPublisher, ok := publisher.(*events.KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "bookings", kafkaPublisher.Topic())
}

func TestNewPaymentProcessorRejectsUnknownProviders(t *testing.T) {
	_, err := newPaymentProcessor(Config{Payment: PaymentConfig{Provider: "cash"}})
	assert.Error(t, err)

	_, err = newPaymentProcessor(Config{Payment: PaymentConfig{Provider: "stripe"}})
	assert.Error(t, err)

	processor, err := newPaymentProcessor(Config{Payment: PaymentConfig{Provider: "simulated", SuccessRate: 1}})
	require.NoError(t, err)
	assert.NotNil(t, processor)
}
