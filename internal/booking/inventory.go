package booking

import (
	"fmt"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// showInventory is the mutable seat state of one show. The descriptor is
// immutable once built; every other method must be called with the show's
// lock held.
type showInventory struct {
	show      domain.Show
	seats     []domain.Seat
	positions map[int]int
	committed map[int]struct{}
}

func newShowInventory(show domain.Show) (*showInventory, error) {
	if show.ID < 1 {
		return nil, fmt.Errorf("show ID must be greater than zero: %w", domain.ErrInvalidInput)
	}

	if len(show.Seats) == 0 {
		return nil, fmt.Errorf("show %d has no seats: %w", show.ID, domain.ErrInvalidInput)
	}

	inv := &showInventory{
		show:      show,
		seats:     make([]domain.Seat, len(show.Seats)),
		positions: make(map[int]int, len(show.Seats)),
		committed: make(map[int]struct{}),
	}

	for i, seat := range show.Seats {
		if seat.ID < 1 {
			return nil, fmt.Errorf("show %d: seat ID must be greater than zero: %w", show.ID, domain.ErrInvalidInput)
		}

		if _, dup := inv.positions[seat.ID]; dup {
			return nil, fmt.Errorf("show %d: duplicate seat %d: %w", show.ID, seat.ID, domain.ErrInvalidInput)
		}

		if !seat.Category.Valid() {
			return nil, fmt.Errorf("show %d: seat %d has unknown category %q: %w",
				show.ID, seat.ID, seat.Category, domain.ErrInvalidInput)
		}

		seat.Available = true
		inv.seats[i] = seat
		inv.positions[seat.ID] = i
	}

	inv.show.Seats = append([]domain.Seat(nil), inv.seats...)

	return inv, nil
}

func (inv *showInventory) isFree(position int) bool {
	seat := inv.seats[position]
	_, taken := inv.committed[seat.ID]

	return !taken && seat.Available
}

func (inv *showInventory) availableSeats() []domain.Seat {
	available := make([]domain.Seat, 0, len(inv.seats)-len(inv.committed))

	for i, seat := range inv.seats {
		if inv.isFree(i) {
			available = append(available, seat)
		}
	}

	return available
}

// check validates every requested seat without mutating anything.
func (inv *showInventory) check(seatIDs []int) error {
	for _, seatID := range seatIDs {
		position, ok := inv.positions[seatID]
		if !ok {
			return fmt.Errorf("seat %d does not exist in show %d: %w", seatID, inv.show.ID, domain.ErrRecordNotFound)
		}

		if !inv.isFree(position) {
			return fmt.Errorf("seat %d in show %d: %w", seatID, inv.show.ID, domain.ErrSeatAlreadyReserved)
		}
	}

	return nil
}

// commit marks the seats as taken and returns them in request order. The
// caller must have passed the same ids through check first.
func (inv *showInventory) commit(seatIDs []int) []domain.Seat {
	booked := make([]domain.Seat, len(seatIDs))

	for i, seatID := range seatIDs {
		position := inv.positions[seatID]

		inv.seats[position].Available = false
		inv.committed[seatID] = struct{}{}

		booked[i] = inv.seats[position]
	}

	return booked
}

func (inv *showInventory) release(seats []domain.Seat) {
	for _, seat := range seats {
		position, ok := inv.positions[seat.ID]
		if !ok {
			continue
		}

		delete(inv.committed, seat.ID)
		inv.seats[position].Available = true
	}
}

func (inv *showInventory) descriptor() domain.Show {
	show := inv.show
	show.Seats = append([]domain.Seat(nil), inv.show.Seats...)

	return show
}
