package payment

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
)

const firstPaymentID int64 = 10000

var (
	MinPaymentAmount = decimal.NewFromInt(1)
	MaxPaymentAmount = decimal.NewFromInt(100000)
)

type CustomerStats struct {
	TotalPayments      int
	SuccessfulPayments int
	FailedPayments     int
	AmountPaid         decimal.Decimal
	AverageAmount      decimal.Decimal
}

// Ledger wraps a PaymentProcessor, validates amounts before charging and
// keeps the history of every outcome under sequential payment ids. The inner
// processor is always called without the ledger lock held.
type Ledger struct {
	inner domain.PaymentProcessor
	now   func() time.Time

	mu         sync.Mutex
	nextID     int64
	history    []domain.Payment
	byID       map[int64]int
	byBooking  map[string][]int
	byCustomer map[string][]int
}

func NewLedger(inner domain.PaymentProcessor) *Ledger {
	return &Ledger{
		inner:      inner,
		now:        time.Now,
		nextID:     firstPaymentID,
		byID:       make(map[int64]int),
		byBooking:  make(map[string][]int),
		byCustomer: make(map[string][]int),
	}
}

func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return fmt.Errorf("payment amount must be greater than zero: %w", domain.ErrInvalidInput)
	case amount.LessThan(MinPaymentAmount):
		return fmt.Errorf("payment amount must be at least %s: %w", MinPaymentAmount, domain.ErrInvalidInput)
	case amount.GreaterThan(MaxPaymentAmount):
		return fmt.Errorf("payment amount exceeds maximum limit of %s: %w", MaxPaymentAmount, domain.ErrInvalidInput)
	}

	return nil
}

func (l *Ledger) Process(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error) {
	err := ValidateAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unsupported payment mode %q: %w", req.Mode, domain.ErrInvalidInput)
	}

	outcome, err := l.inner.Process(ctx, req)
	if err != nil {
		return nil, err
	}

	if outcome == nil {
		return nil, fmt.Errorf("payment processor returned no outcome for booking %s", req.BookingID)
	}

	payment := *outcome
	payment.BookingID = req.BookingID
	payment.CustomerID = req.CustomerID
	payment.Amount = req.Amount
	payment.Mode = req.Mode

	if payment.ProcessedAt.IsZero() {
		payment.ProcessedAt = l.now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	payment.ID = l.nextID
	l.nextID++

	pos := len(l.history)
	l.history = append(l.history, payment)
	l.byID[payment.ID] = pos
	l.byBooking[payment.BookingID] = append(l.byBooking[payment.BookingID], pos)
	l.byCustomer[payment.CustomerID] = append(l.byCustomer[payment.CustomerID], pos)

	return &payment, nil
}

func (l *Ledger) Get(paymentID int64) (domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.byID[paymentID]
	if !ok {
		return domain.Payment{}, fmt.Errorf("payment %d: %w", paymentID, domain.ErrRecordNotFound)
	}

	return l.history[pos], nil
}

func (l *Ledger) ForBooking(bookingID string) []domain.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.collect(l.byBooking[bookingID])
}

func (l *Ledger) ForCustomer(customerID string) []domain.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.collect(l.byCustomer[customerID])
}

func (l *Ledger) ByStatus(status domain.PaymentStatus) []domain.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()

	payments := []domain.Payment{}
	for _, p := range l.history {
		if p.Status == status {
			payments = append(payments, p)
		}
	}

	return payments
}

func (l *Ledger) All() []domain.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.history)
}

func (l *Ledger) CustomerStats(customerID string) CustomerStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := CustomerStats{
		AmountPaid:    decimal.Zero,
		AverageAmount: decimal.Zero,
	}

	for _, pos := range l.byCustomer[customerID] {
		p := l.history[pos]
		stats.TotalPayments++

		if p.Succeeded() {
			stats.SuccessfulPayments++
			stats.AmountPaid = stats.AmountPaid.Add(p.Amount)
		} else {
			stats.FailedPayments++
		}
	}

	if stats.SuccessfulPayments > 0 {
		stats.AverageAmount = stats.AmountPaid.Div(decimal.NewFromInt(int64(stats.SuccessfulPayments)))
	}

	return stats
}

// TotalRevenue sums every successful payment.
func (l *Ledger) TotalRevenue() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, p := range l.history {
		if p.Succeeded() {
			total = total.Add(p.Amount)
		}
	}

	return total
}

func (l *Ledger) collect(positions []int) []domain.Payment {
	payments := make([]domain.Payment, len(positions))
	for i, pos := range positions {
		payments[i] = l.history[pos]
	}

	return payments
}
