package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusCreated   BookingStatus = "created"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID              string
	ShowID          int
	CustomerID      string
	Seats           []Seat
	TotalAmount     decimal.Decimal
	Status          BookingStatus
	Payment         *Payment
	PaymentAttempts int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SeatIDs returns the booked seat ids in booking order.
func (b Booking) SeatIDs() []int {
	ids := make([]int, len(b.Seats))

	for i, seat := range b.Seats {
		ids[i] = seat.ID
	}

	return ids
}

// Payable reports whether ConfirmPayment may be attempted on the booking.
func (b Booking) Payable() bool {
	return b.Status == BookingStatusConfirmed
}

// AwaitingPaymentRetry reports whether the last payment attempt was declined
// while the seats are still held.
func (b Booking) AwaitingPaymentRetry() bool {
	return b.Status == BookingStatusConfirmed && b.Payment != nil && b.Payment.Status == PaymentStatusFailed
}

// BookingDetails joins a booking with the catalog descriptor of its show.
type BookingDetails struct {
	Booking Booking
	Show    Show
}

type BookingEventType string

const (
	BookingEventCreated       BookingEventType = "booking.created"
	BookingEventPaid          BookingEventType = "booking.paid"
	BookingEventPaymentFailed BookingEventType = "booking.payment_failed"
	BookingEventCancelled     BookingEventType = "booking.cancelled"
)

// BookingEvent is published after a booking changes state. It carries enough
// information for downstream consumers to notify or reconcile without
// querying the booking service.
type BookingEvent struct {
	Type        BookingEventType `json:"type"`
	BookingID   string           `json:"booking_id"`
	ShowID      int              `json:"show_id"`
	CustomerID  string           `json:"customer_id"`
	SeatIDs     []int            `json:"seat_ids"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	PaymentID   int64            `json:"payment_id,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}
