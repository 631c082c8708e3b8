package domain

import "github.com/shopspring/decimal"

// PriceFunc maps a seat category to the price of one seat. Implementations
// must be total and side-effect free.
type PriceFunc func(SeatCategory) decimal.Decimal

var (
	defaultSeatPrice = decimal.NewFromInt(100)

	seatPricing = map[SeatCategory]decimal.Decimal{
		SeatCategoryPremium:  decimal.NewFromInt(500),
		SeatCategoryGold:     decimal.NewFromInt(300),
		SeatCategorySilver:   decimal.NewFromInt(200),
		SeatCategoryStandard: decimal.NewFromInt(100),
	}
)

// PriceOf returns the price of a seat in the given category. Unknown
// categories are charged the standard price.
func PriceOf(category SeatCategory) decimal.Decimal {
	price, ok := seatPricing[category]
	if !ok {
		return defaultSeatPrice
	}

	return price
}

// PriceList returns a copy of the category price table.
func PriceList() map[SeatCategory]decimal.Decimal {
	prices := make(map[SeatCategory]decimal.Decimal, len(seatPricing))

	for category, price := range seatPricing {
		prices[category] = price
	}

	return prices
}

func TotalFor(seats []Seat) decimal.Decimal {
	return TotalWith(PriceOf, seats)
}

func TotalWith(priceOf PriceFunc, seats []Seat) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range seats {
		total = total.Add(priceOf(seat.Category))
	}

	return total
}
