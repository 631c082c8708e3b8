package booking

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

const maxIDAttempts = 8

var errIDSpaceExhausted = errors.New("could not generate an unused booking ID")

type bookingRecord struct {
	booking         domain.Booking
	paymentInFlight bool
}

// bookingIndex maps booking ids to live records and shows to their bookings
// in creation order. The methods below expect mu to be held.
type bookingIndex struct {
	mu       sync.Mutex
	bookings map[string]*bookingRecord
	byShow   map[int][]*bookingRecord
}

func newBookingIndex() *bookingIndex {
	return &bookingIndex{
		bookings: make(map[string]*bookingRecord),
		byShow:   make(map[int][]*bookingRecord),
	}
}

func (idx *bookingIndex) get(bookingID string) (*bookingRecord, bool) {
	rec, ok := idx.bookings[bookingID]
	return rec, ok
}

func (idx *bookingIndex) unusedID(newID IDGenerator) (string, error) {
	for range maxIDAttempts {
		id := newID()
		if _, taken := idx.bookings[id]; !taken && id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", errIDSpaceExhausted, maxIDAttempts)
}

func (idx *bookingIndex) add(rec *bookingRecord) {
	idx.bookings[rec.booking.ID] = rec
	idx.byShow[rec.booking.ShowID] = append(idx.byShow[rec.booking.ShowID], rec)
}

func (idx *bookingIndex) remove(rec *bookingRecord) {
	delete(idx.bookings, rec.booking.ID)

	showID := rec.booking.ShowID
	idx.byShow[showID] = slices.DeleteFunc(idx.byShow[showID], func(r *bookingRecord) bool {
		return r == rec
	})
}

func (idx *bookingIndex) forShow(showID int) []domain.Booking {
	records := idx.byShow[showID]
	bookings := make([]domain.Booking, len(records))

	for i, rec := range records {
		bookings[i] = cloneBooking(rec.booking)
	}

	return bookings
}

func (idx *bookingIndex) len() int {
	return len(idx.bookings)
}

// cloneBooking returns a copy that shares no memory with the live record.
func cloneBooking(b domain.Booking) domain.Booking {
	b.Seats = append([]domain.Seat(nil), b.Seats...)

	if b.Payment != nil {
		payment := *b.Payment
		b.Payment = &payment
	}

	return b
}
