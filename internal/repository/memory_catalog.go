package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// MemoryCatalog is a read-only catalog held in memory.
type MemoryCatalog struct {
	mu    sync.RWMutex
	shows map[int]domain.Show
}

func NewMemoryCatalog(shows ...domain.Show) *MemoryCatalog {
	c := &MemoryCatalog{
		shows: make(map[int]domain.Show, len(shows)),
	}

	for _, show := range shows {
		c.shows[show.ID] = cloneShow(show)
	}

	return c
}

func (c *MemoryCatalog) ListShows(ctx context.Context) ([]domain.Show, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	shows := make([]domain.Show, 0, len(c.shows))
	for _, show := range c.shows {
		shows = append(shows, cloneShow(show))
	}

	slices.SortFunc(shows, func(a, b domain.Show) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return shows, nil
}

func (c *MemoryCatalog) GetShow(ctx context.Context, showID int) (*domain.Show, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	show, ok := c.shows[showID]
	if !ok {
		return nil, fmt.Errorf("show %d: %w", showID, domain.ErrRecordNotFound)
	}

	show = cloneShow(show)

	return &show, nil
}

func cloneShow(show domain.Show) domain.Show {
	show.Seats = slices.Clone(show.Seats)
	return show
}

// DemoShows returns the demo catalog: one Bangalore theatre with a 20 seat
// screen and three shows on the given day.
func DemoShows(day time.Time) []domain.Show {
	venue := domain.Venue{
		TheaterID:   1,
		TheaterName: "MG Road Cinemas",
		ScreenID:    1,
		City:        "Bangalore",
		Address:     "MG Road, Bangalore",
	}

	endgame := domain.Movie{ID: 1, Title: "Avengers: Endgame", Genre: "Action", Language: "English", DurationMinutes: 180}
	inception := domain.Movie{ID: 2, Title: "Inception", Genre: "Sci-Fi", Language: "English", DurationMinutes: 148}

	at := func(hour int) time.Time {
		y, m, d := day.Date()
		return time.Date(y, m, d, hour, 0, 0, 0, day.Location())
	}

	return []domain.Show{
		{ID: 1, Movie: endgame, Venue: venue, StartTime: at(18), Seats: demoLayout()},
		{ID: 2, Movie: endgame, Venue: venue, StartTime: at(21), Seats: demoLayout()},
		{ID: 3, Movie: inception, Venue: venue, StartTime: at(15), Seats: demoLayout()},
	}
}

func demoLayout() []domain.Seat {
	seats := make([]domain.Seat, 0, 20)

	for i := 1; i <= 20; i++ {
		category := domain.SeatCategoryStandard

		switch {
		case i <= 5:
			category = domain.SeatCategoryPremium
		case i <= 10:
			category = domain.SeatCategoryGold
		case i <= 15:
			category = domain.SeatCategorySilver
		}

		seats = append(seats, domain.Seat{ID: i, Category: category, Available: true})
	}

	return seats
}
