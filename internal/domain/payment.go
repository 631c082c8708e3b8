package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeCard       PaymentMode = "card"
	PaymentModeUPI        PaymentMode = "upi"
	PaymentModeNetBanking PaymentMode = "net_banking"
	PaymentModeWallet     PaymentMode = "wallet"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCard, PaymentModeUPI, PaymentModeNetBanking, PaymentModeWallet:
		return true
	}

	return false
}

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	ID          int64
	BookingID   string
	CustomerID  string
	Amount      decimal.Decimal
	Mode        PaymentMode
	Status      PaymentStatus
	Reference   string
	Reason      string
	ProcessedAt time.Time
}

func (p Payment) Succeeded() bool {
	return p.Status == PaymentStatusSuccess
}

type PaymentRequest struct {
	BookingID  string
	CustomerID string
	Amount     decimal.Decimal
	Mode       PaymentMode
	Attempt    int
}

// PaymentProcessor charges a booking. A declined charge is reported as a
// Payment with PaymentStatusFailed and a nil error; the error return is
// reserved for failures to reach an outcome at all.
type PaymentProcessor interface {
	Process(ctx context.Context, req PaymentRequest) (*Payment, error)
}
