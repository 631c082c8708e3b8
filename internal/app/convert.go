package app

import (
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/payment"
)

func toApiShow(show domain.Show) api.Show {
	return api.Show{
		Id: show.ID,
		Movie: api.Movie{
			Id:              show.Movie.ID,
			Title:           show.Movie.Title,
			Genre:           show.Movie.Genre,
			Language:        show.Movie.Language,
			DurationMinutes: show.Movie.DurationMinutes,
		},
		Venue: api.Venue{
			TheaterId:   show.Venue.TheaterID,
			TheaterName: show.Venue.TheaterName,
			ScreenId:    show.Venue.ScreenID,
			City:        show.Venue.City,
			Address:     show.Venue.Address,
		},
		StartTime:  show.StartTime,
		TotalSeats: len(show.Seats),
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, seat := range seats {
		apiSeats[i] = api.Seat{
			Id:       seat.ID,
			Category: string(seat.Category),
			Price:    domain.PriceOf(seat.Category),
		}
	}

	return apiSeats
}

func toApiPayment(p domain.Payment) api.Payment {
	return api.Payment{
		Id:          p.ID,
		BookingId:   p.BookingID,
		Amount:      p.Amount,
		Mode:        string(p.Mode),
		Status:      string(p.Status),
		Reference:   p.Reference,
		Reason:      p.Reason,
		ProcessedAt: p.ProcessedAt,
	}
}

func toApiPayments(payments []domain.Payment) []api.Payment {
	apiPayments := make([]api.Payment, len(payments))

	for i, p := range payments {
		apiPayments[i] = toApiPayment(p)
	}

	return apiPayments
}

func toApiBooking(b domain.Booking) api.Booking {
	booking := api.Booking{
		Id:                   b.ID,
		ShowId:               b.ShowID,
		CustomerId:           b.CustomerID,
		Seats:                toApiSeats(b.Seats),
		TotalAmount:          b.TotalAmount,
		Status:               string(b.Status),
		PaymentAttempts:      b.PaymentAttempts,
		AwaitingPaymentRetry: b.AwaitingPaymentRetry(),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}

	if b.Payment != nil {
		p := toApiPayment(*b.Payment)
		booking.Payment = &p
	}

	return booking
}

func toApiBookings(bookings []domain.Booking) []api.Booking {
	apiBookings := make([]api.Booking, len(bookings))

	for i, b := range bookings {
		apiBookings[i] = toApiBooking(b)
	}

	return apiBookings
}

func toApiPaymentStats(stats payment.CustomerStats) api.PaymentStats {
	return api.PaymentStats{
		TotalPayments:      stats.TotalPayments,
		SuccessfulPayments: stats.SuccessfulPayments,
		FailedPayments:     stats.FailedPayments,
		AmountPaid:         stats.AmountPaid,
		AverageAmount:      stats.AverageAmount,
	}
}
