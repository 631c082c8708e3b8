// Package booking implements the seat-reservation core: availability
// queries, atomic multi-seat reservation, payment confirmation and
// cancellation for shows registered from the catalog.
//
// Lock order: whenever an operation needs both a show lock and the booking
// index lock it takes the show lock first. The index lock and the customer
// list locks are only ever held for short critical sections and never while
// waiting on a show lock or the payment processor.
package booking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var errNoPaymentProcessor = errors.New("no payment processor configured")

type IDGenerator func() string

func NewBookingID() string {
	return uuid.NewString()
}

type Service struct {
	logger    *slog.Logger
	processor domain.PaymentProcessor
	publisher domain.EventPublisher
	priceOf   domain.PriceFunc
	now       func() time.Time
	newID     IDGenerator
	locks     *ShowLockRegistry
	meter     metric.Meter
	tracer    trace.Tracer
	metrics   *serviceMetrics

	showsMu sync.RWMutex
	shows   map[int]*showInventory

	index     *bookingIndex
	customers *customerDirectory
}

type Option func(*Service)

func WithPriceFunc(priceOf domain.PriceFunc) Option {
	return func(s *Service) {
		if priceOf != nil {
			s.priceOf = priceOf
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID IDGenerator) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithRegistry lets callers share or inspect the show lock registry.
func WithRegistry(registry *ShowLockRegistry) Option {
	return func(s *Service) {
		if registry != nil {
			s.locks = registry
		}
	}
}

func WithMeter(meter metric.Meter) Option {
	return func(s *Service) {
		if meter != nil {
			s.meter = meter
		}
	}
}

func NewService(
	logger *slog.Logger,
	processor domain.PaymentProcessor,
	publisher domain.EventPublisher,
	opts ...Option) *Service {

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	s := &Service{
		logger:    logger,
		processor: processor,
		publisher: publisher,
		priceOf:   domain.PriceOf,
		now:       time.Now,
		newID:     NewBookingID,
		locks:     NewShowLockRegistry(),
		meter:     otel.Meter(instrumentationName),
		tracer:    otel.Tracer(instrumentationName),
		shows:     make(map[int]*showInventory),
		index:     newBookingIndex(),
		customers: newCustomerDirectory(),
	}

	for _, opt := range opts {
		opt(s)
	}

	metrics, err := newServiceMetrics(s.meter)
	if err != nil {
		logger.Warn("failed to create booking metrics, falling back to no-op instruments", "error", err)
		metrics, _ = newServiceMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	s.metrics = metrics

	return s
}

// RegisterShow installs the seat inventory of a catalog show. All seats
// start out available.
func (s *Service) RegisterShow(show domain.Show) error {
	inv, err := newShowInventory(show)
	if err != nil {
		return err
	}

	s.showsMu.Lock()
	defer s.showsMu.Unlock()

	if _, exists := s.shows[show.ID]; exists {
		return fmt.Errorf("show %d is already registered: %w", show.ID, domain.ErrEditConflict)
	}

	s.shows[show.ID] = inv

	return nil
}

func (s *Service) Shows() []domain.Show {
	s.showsMu.RLock()
	shows := make([]domain.Show, 0, len(s.shows))
	for _, inv := range s.shows {
		shows = append(shows, inv.descriptor())
	}
	s.showsMu.RUnlock()

	slices.SortFunc(shows, func(a, b domain.Show) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return shows
}

func (s *Service) Show(showID int) (domain.Show, error) {
	inv, err := s.inventory(showID)
	if err != nil {
		return domain.Show{}, err
	}

	return inv.descriptor(), nil
}

func (s *Service) inventory(showID int) (*showInventory, error) {
	s.showsMu.RLock()
	inv, ok := s.shows[showID]
	s.showsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("show %d: %w", showID, domain.ErrRecordNotFound)
	}

	return inv, nil
}

// lockShow acquires the show's lock. Waiting honours ctx; once the lock is
// returned the caller must run its critical section to completion and call
// unlock.
func (s *Service) lockShow(ctx context.Context, showID int) (*showInventory, func(), error) {
	inv, err := s.inventory(showID)
	if err != nil {
		return nil, nil, err
	}

	lock := s.locks.LockFor(showID)

	err = lock.Lock(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock for show %d: %w", showID, err)
	}

	return inv, lock.Unlock, nil
}

func (s *Service) AvailableSeats(ctx context.Context, showID int) ([]domain.Seat, error) {
	inv, unlock, err := s.lockShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return inv.availableSeats(), nil
}

// AreAvailable is advisory: CreateBooking re-checks under the lock.
func (s *Service) AreAvailable(ctx context.Context, showID int, seatIDs []int) (bool, error) {
	if len(seatIDs) == 0 {
		return false, fmt.Errorf("at least one seat must be requested: %w", domain.ErrInvalidInput)
	}

	inv, unlock, err := s.lockShow(ctx, showID)
	if err != nil {
		return false, err
	}
	defer unlock()

	return inv.check(seatIDs) == nil, nil
}

func (s *Service) CreateBooking(
	ctx context.Context,
	customerID string,
	showID int,
	seatIDs []int) (domain.Booking, error) {

	ctx, span := s.tracer.Start(ctx, "booking.CreateBooking", trace.WithAttributes(
		attribute.Int("show.id", showID),
		attribute.String("customer.id", customerID),
		attribute.IntSlice("seat.ids", seatIDs),
	))
	defer span.End()

	err := validateBookingRequest(customerID, seatIDs)
	if err != nil {
		recordSpanError(span, err)
		return domain.Booking{}, err
	}

	booking, err := s.reserve(ctx, customerID, showID, seatIDs)
	if err != nil {
		recordSpanError(span, err)

		if errors.Is(err, domain.ErrSeatAlreadyReserved) {
			s.metrics.seatConflicts.Add(ctx, 1, metric.WithAttributes(attribute.Int("show.id", showID)))
			s.logger.Warn("booking rejected: seat already reserved",
				"show_id", showID, "customer_id", customerID, "seat_ids", seatIDs, "error", err)
		}

		return domain.Booking{}, err
	}

	s.metrics.bookingsCreated.Add(ctx, 1, metric.WithAttributes(attribute.Int("show.id", showID)))
	s.logger.Info("booking created",
		"booking_id", booking.ID, "show_id", showID, "customer_id", customerID,
		"seat_ids", seatIDs, "total_amount", booking.TotalAmount.String())

	s.publish(ctx, domain.BookingEventCreated, booking)

	return booking, nil
}

func (s *Service) reserve(ctx context.Context, customerID string, showID int, seatIDs []int) (domain.Booking, error) {
	inv, unlock, err := s.lockShow(ctx, showID)
	if err != nil {
		return domain.Booking{}, err
	}
	defer unlock()

	err = inv.check(seatIDs)
	if err != nil {
		return domain.Booking{}, err
	}

	seats := inv.commit(seatIDs)
	now := s.now()

	booking := domain.Booking{
		ShowID:      showID,
		CustomerID:  customerID,
		Seats:       seats,
		TotalAmount: domain.TotalWith(s.priceOf, seats),
		Status:      domain.BookingStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	booking.Status = domain.BookingStatusConfirmed

	s.index.mu.Lock()
	booking.ID, err = s.index.unusedID(s.newID)
	if err != nil {
		s.index.mu.Unlock()
		inv.release(seats)
		return domain.Booking{}, err
	}
	s.index.add(&bookingRecord{booking: cloneBooking(booking)})
	s.index.mu.Unlock()

	s.customers.listFor(customerID).append(booking.ID)

	return booking, nil
}

func validateBookingRequest(customerID string, seatIDs []int) error {
	if strings.TrimSpace(customerID) == "" {
		return fmt.Errorf("customer ID must not be empty: %w", domain.ErrInvalidInput)
	}

	if len(seatIDs) == 0 {
		return fmt.Errorf("at least one seat must be requested: %w", domain.ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(seatIDs))

	for _, seatID := range seatIDs {
		if seatID < 1 {
			return fmt.Errorf("seat ID must be greater than zero, got %d: %w", seatID, domain.ErrInvalidInput)
		}

		if _, dup := seen[seatID]; dup {
			return fmt.Errorf("seat %d requested more than once: %w", seatID, domain.ErrInvalidInput)
		}

		seen[seatID] = struct{}{}
	}

	return nil
}

// ConfirmPayment charges the booking's total through the payment processor.
// The processor runs with no lock held; concurrent confirmations of the same
// booking are rejected while one is in flight. A declined payment keeps the
// booking confirmed with its seats held and returns ErrPaymentDeclined along
// with the updated booking so the caller can retry.
func (s *Service) ConfirmPayment(ctx context.Context, bookingID string, mode domain.PaymentMode) (domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.ConfirmPayment", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("payment.mode", string(mode)),
	))
	defer span.End()

	if !mode.Valid() {
		err := fmt.Errorf("unsupported payment mode %q: %w", mode, domain.ErrInvalidInput)
		recordSpanError(span, err)
		return domain.Booking{}, err
	}

	if s.processor == nil {
		recordSpanError(span, errNoPaymentProcessor)
		return domain.Booking{}, errNoPaymentProcessor
	}

	rec, req, err := s.beginPayment(bookingID, mode)
	if err != nil {
		recordSpanError(span, err)
		return domain.Booking{}, err
	}

	payment, err := s.processor.Process(ctx, req)
	if err == nil && payment == nil {
		err = errors.New("payment processor returned no outcome")
	}

	booking, err := s.finishPayment(rec, payment, err)
	if err != nil {
		s.logger.Error("payment processing failed", "booking_id", bookingID, "error", err)
		recordSpanError(span, err)
		return domain.Booking{}, fmt.Errorf("process payment for booking %s: %w", bookingID, err)
	}

	if !booking.Payment.Succeeded() {
		s.metrics.paymentsDeclined.Add(ctx, 1, metric.WithAttributes(attribute.String("payment.mode", string(mode))))
		s.logger.Warn("payment declined, seats remain held",
			"booking_id", bookingID, "payment_id", booking.Payment.ID,
			"attempts", booking.PaymentAttempts, "reason", booking.Payment.Reason)

		s.publish(ctx, domain.BookingEventPaymentFailed, booking)

		err = fmt.Errorf("booking %s: %w", bookingID, domain.ErrPaymentDeclined)
		recordSpanError(span, err)

		return booking, err
	}

	s.logger.Info("payment confirmed", "booking_id", bookingID, "payment_id", booking.Payment.ID)
	s.publish(ctx, domain.BookingEventPaid, booking)

	return booking, nil
}

func (s *Service) beginPayment(bookingID string, mode domain.PaymentMode) (*bookingRecord, domain.PaymentRequest, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()

	rec, ok := s.index.get(bookingID)
	if !ok {
		return nil, domain.PaymentRequest{}, fmt.Errorf("booking %s: %w", bookingID, domain.ErrRecordNotFound)
	}

	if rec.paymentInFlight {
		return nil, domain.PaymentRequest{}, fmt.Errorf("booking %s already has a payment in progress: %w",
			bookingID, domain.ErrEditConflict)
	}

	if !rec.booking.Payable() {
		return nil, domain.PaymentRequest{}, fmt.Errorf("booking %s is %s and cannot be paid: %w",
			bookingID, rec.booking.Status, domain.ErrEditConflict)
	}

	if !rec.booking.TotalAmount.IsPositive() {
		return nil, domain.PaymentRequest{}, fmt.Errorf("booking %s has a non-positive amount %s: %w",
			bookingID, rec.booking.TotalAmount, domain.ErrInvalidInput)
	}

	rec.paymentInFlight = true

	req := domain.PaymentRequest{
		BookingID:  rec.booking.ID,
		CustomerID: rec.booking.CustomerID,
		Amount:     rec.booking.TotalAmount,
		Mode:       mode,
		Attempt:    rec.booking.PaymentAttempts + 1,
	}

	return rec, req, nil
}

// finishPayment records the processor's outcome. rec is still indexed:
// Cancel refuses bookings with a payment in flight.
func (s *Service) finishPayment(rec *bookingRecord, payment *domain.Payment, processErr error) (domain.Booking, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()

	rec.paymentInFlight = false

	if processErr != nil {
		return domain.Booking{}, processErr
	}

	attached := *payment
	rec.booking.Payment = &attached
	rec.booking.PaymentAttempts++
	rec.booking.UpdatedAt = s.now()

	if attached.Succeeded() {
		rec.booking.Status = domain.BookingStatusPaid
	}

	return cloneBooking(rec.booking), nil
}

// Cancel releases the booking's seats and removes it from every index. It
// returns false, nil when the booking does not exist, which makes duplicate
// cancellations harmless.
func (s *Service) Cancel(ctx context.Context, bookingID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
	))
	defer span.End()

	cancelled, ok, err := s.release(ctx, bookingID)
	if err != nil {
		recordSpanError(span, err)
		return false, err
	}

	if !ok {
		return false, nil
	}

	s.metrics.bookingsCancelled.Add(ctx, 1, metric.WithAttributes(attribute.Int("show.id", cancelled.ShowID)))
	s.logger.Info("booking cancelled",
		"booking_id", bookingID, "show_id", cancelled.ShowID, "seat_ids", cancelled.SeatIDs())

	s.publish(ctx, domain.BookingEventCancelled, cancelled)

	return true, nil
}

func (s *Service) release(ctx context.Context, bookingID string) (domain.Booking, bool, error) {
	// The show is only known after a first lookup, and the index lock cannot
	// be held while waiting for a show lock.
	s.index.mu.Lock()
	rec, ok := s.index.get(bookingID)
	var showID int
	if ok {
		showID = rec.booking.ShowID
	}
	s.index.mu.Unlock()

	if !ok {
		return domain.Booking{}, false, nil
	}

	inv, unlock, err := s.lockShow(ctx, showID)
	if err != nil {
		return domain.Booking{}, false, err
	}
	defer unlock()

	s.index.mu.Lock()

	rec, ok = s.index.get(bookingID)
	if !ok {
		s.index.mu.Unlock()
		return domain.Booking{}, false, nil
	}

	if rec.paymentInFlight {
		s.index.mu.Unlock()
		return domain.Booking{}, false, fmt.Errorf("booking %s has a payment in progress: %w",
			bookingID, domain.ErrEditConflict)
	}

	inv.release(rec.booking.Seats)
	s.index.remove(rec)

	rec.booking.Status = domain.BookingStatusCancelled
	rec.booking.UpdatedAt = s.now()
	cancelled := cloneBooking(rec.booking)

	s.index.mu.Unlock()

	if list, ok := s.customers.lookup(cancelled.CustomerID); ok {
		list.remove(bookingID)
	}

	return cancelled, true, nil
}

func (s *Service) GetBooking(bookingID string) (domain.Booking, error) {
	s.index.mu.Lock()
	defer s.index.mu.Unlock()

	rec, ok := s.index.get(bookingID)
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", bookingID, domain.ErrRecordNotFound)
	}

	return cloneBooking(rec.booking), nil
}

func (s *Service) BookingDetails(bookingID string) (domain.BookingDetails, error) {
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return domain.BookingDetails{}, err
	}

	show, err := s.Show(booking.ShowID)
	if err != nil {
		return domain.BookingDetails{}, err
	}

	return domain.BookingDetails{Booking: booking, Show: show}, nil
}

func (s *Service) GetBookingsForShow(showID int) ([]domain.Booking, error) {
	_, err := s.inventory(showID)
	if err != nil {
		return nil, err
	}

	s.index.mu.Lock()
	defer s.index.mu.Unlock()

	return s.index.forShow(showID), nil
}

// GetBookingsForCustomer returns the customer's live bookings in the order
// they were made. Bookings cancelled between the two steps are skipped.
func (s *Service) GetBookingsForCustomer(customerID string) []domain.Booking {
	list, ok := s.customers.lookup(customerID)
	if !ok {
		return []domain.Booking{}
	}

	ids := list.snapshot()
	bookings := make([]domain.Booking, 0, len(ids))

	s.index.mu.Lock()
	defer s.index.mu.Unlock()

	for _, id := range ids {
		if rec, ok := s.index.get(id); ok {
			bookings = append(bookings, cloneBooking(rec.booking))
		}
	}

	return bookings
}

func (s *Service) publish(ctx context.Context, eventType domain.BookingEventType, booking domain.Booking) {
	event := domain.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		ShowID:      booking.ShowID,
		CustomerID:  booking.CustomerID,
		SeatIDs:     booking.SeatIDs(),
		TotalAmount: booking.TotalAmount,
		OccurredAt:  s.now(),
	}

	if booking.Payment != nil {
		event.PaymentID = booking.Payment.ID
	}

	err := s.publisher.Publish(context.WithoutCancel(ctx), event)
	if err != nil {
		s.logger.Error("failed to publish booking event",
			"type", eventType, "booking_id", booking.ID, "error", err)
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
