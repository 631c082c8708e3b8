package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

const (
	DefaultSuccessRate = 0.9
	DefaultLatency     = 100 * time.Millisecond
)

// SimulatedProcessor approves a configurable share of payments after a fixed
// delay. A success rate of 1 or 0 makes outcomes deterministic.
type SimulatedProcessor struct {
	successRate float64
	latency     time.Duration
	now         func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

type SimulatedOption func(*SimulatedProcessor)

func WithRandSource(src rand.Source) SimulatedOption {
	return func(p *SimulatedProcessor) {
		p.rnd = rand.New(src)
	}
}

func WithSimulatedClock(now func() time.Time) SimulatedOption {
	return func(p *SimulatedProcessor) {
		p.now = now
	}
}

func NewSimulatedProcessor(successRate float64, latency time.Duration, opts ...SimulatedOption) *SimulatedProcessor {
	p := &SimulatedProcessor{
		successRate: min(max(successRate, 0), 1),
		latency:     max(latency, 0),
		now:         time.Now,
		rnd:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *SimulatedProcessor) Process(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error) {
	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	roll := p.rnd.Float64()
	p.mu.Unlock()

	payment := &domain.Payment{
		BookingID:   req.BookingID,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Mode:        req.Mode,
		Status:      domain.PaymentStatusSuccess,
		Reference:   fmt.Sprintf("sim_%s_%d", req.BookingID, req.Attempt),
		ProcessedAt: p.now(),
	}

	if roll >= p.successRate {
		payment.Status = domain.PaymentStatusFailed
		payment.Reason = "declined by simulated gateway"
	}

	return payment, nil
}
