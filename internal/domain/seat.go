package domain

import (
	"context"
	"time"
)

type SeatCategory string

const (
	SeatCategoryPremium  SeatCategory = "premium"
	SeatCategoryGold     SeatCategory = "gold"
	SeatCategorySilver   SeatCategory = "silver"
	SeatCategoryStandard SeatCategory = "standard"
)

// SeatCategories lists the categories in descending price order.
var SeatCategories = []SeatCategory{
	SeatCategoryPremium,
	SeatCategoryGold,
	SeatCategorySilver,
	SeatCategoryStandard,
}

func (c SeatCategory) Valid() bool {
	switch c {
	case SeatCategoryPremium, SeatCategoryGold, SeatCategorySilver, SeatCategoryStandard:
		return true
	}

	return false
}

type Seat struct {
	ID        int
	Category  SeatCategory
	Available bool
}

type Movie struct {
	ID              int
	Title           string
	Genre           string
	Language        string
	DurationMinutes int
}

type Venue struct {
	TheaterID   int
	TheaterName string
	ScreenID    int
	City        string
	Address     string
}

// Show is the catalog's read-only descriptor of a single screening. Seats is
// the ordered layout of the screen the show runs on.
type Show struct {
	ID        int
	Movie     Movie
	Venue     Venue
	StartTime time.Time
	Seats     []Seat
}

type CatalogRepository interface {
	ListShows(ctx context.Context) ([]Show, error)
	GetShow(ctx context.Context, showID int) (*Show, error)
}
