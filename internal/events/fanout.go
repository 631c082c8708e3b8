package events

import (
	"context"
	"errors"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// Fanout publishes every event to each publisher in turn. A failing
// publisher does not stop the others; their errors are joined.
type Fanout []domain.EventPublisher

func (f Fanout) Publish(ctx context.Context, event domain.BookingEvent) error {
	var errs []error

	for _, publisher := range f {
		err := publisher.Publish(ctx, event)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
