package booking

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/metinatakli/showtime-booking/internal/booking"

type serviceMetrics struct {
	bookingsCreated   metric.Int64Counter
	bookingsCancelled metric.Int64Counter
	seatConflicts     metric.Int64Counter
	paymentsDeclined  metric.Int64Counter
}

func newServiceMetrics(meter metric.Meter) (*serviceMetrics, error) {
	created, createdErr := meter.Int64Counter("bookings.created",
		metric.WithDescription("Bookings committed"))
	cancelled, cancelledErr := meter.Int64Counter("bookings.cancelled",
		metric.WithDescription("Bookings cancelled and seats released"))
	conflicts, conflictsErr := meter.Int64Counter("bookings.seat_conflicts",
		metric.WithDescription("Reservations rejected because a seat was already taken"))
	declined, declinedErr := meter.Int64Counter("payments.declined",
		metric.WithDescription("Payment attempts declined by the processor"))

	err := errors.Join(createdErr, cancelledErr, conflictsErr, declinedErr)
	if err != nil {
		return nil, err
	}

	return &serviceMetrics{
		bookingsCreated:   created,
		bookingsCancelled: cancelled,
		seatConflicts:     conflicts,
		paymentsDeclined:  declined,
	}, nil
}
