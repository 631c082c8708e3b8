package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

const (
	DefaultCurrency      = "inr"
	DefaultPaymentMethod = "pm_card_visa"
)

var minorUnits = decimal.NewFromInt(100)

// StripeProcessor charges bookings by creating and confirming a Stripe
// PaymentIntent. The API key is read from stripe.Key.
type StripeProcessor struct {
	currency      string
	paymentMethod string
	now           func() time.Time

	newIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func NewStripeProcessor(currency, paymentMethod string) *StripeProcessor {
	if currency == "" {
		currency = DefaultCurrency
	}

	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	return &StripeProcessor{
		currency:      strings.ToLower(currency),
		paymentMethod: paymentMethod,
		now:           time.Now,
		newIntent:     paymentintent.New,
	}
}

func IdempotencyKey(bookingID string, attempt int) string {
	return fmt.Sprintf("booking:%s:attempt:%d", bookingID, attempt)
}

func (s *StripeProcessor) Process(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount.Mul(minorUnits).Round(0).IntPart()),
		Currency:      stripe.String(s.currency),
		PaymentMethod: stripe.String(s.paymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(fmt.Sprintf("Booking %s", req.BookingID)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
		Metadata: map[string]string{
			"booking_id":   req.BookingID,
			"customer_id":  req.CustomerID,
			"payment_mode": string(req.Mode),
			"attempt":      strconv.Itoa(req.Attempt),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(IdempotencyKey(req.BookingID, req.Attempt))

	payment := &domain.Payment{
		BookingID:   req.BookingID,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Mode:        req.Mode,
		ProcessedAt: s.now(),
	}

	pi, err := s.newIntent(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			payment.Status = domain.PaymentStatusFailed
			payment.Reason = declineReason(stripeErr)
			return payment, nil
		}

		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment.Reference = pi.ID

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		payment.Status = domain.PaymentStatusSuccess
	default:
		payment.Status = domain.PaymentStatusFailed
		payment.Reason = fmt.Sprintf("payment intent ended in status %s", pi.Status)
	}

	return payment, nil
}

func declineReason(err *stripe.Error) string {
	if err.DeclineCode != "" {
		return fmt.Sprintf("%s (%s)", err.Msg, err.DeclineCode)
	}

	return err.Msg
}
