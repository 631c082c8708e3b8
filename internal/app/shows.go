package app

import (
	"context"
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/jsonutil"
)

func (app *Application) lockContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), app.config.LockTimeout)
}

func (app *Application) ListShows(w http.ResponseWriter, r *http.Request) {
	shows := app.bookings.Shows()

	resp := api.ShowsResponse{
		Shows: make([]api.Show, len(shows)),
	}

	for i, show := range shows {
		resp.Shows[i] = toApiShow(show)
	}

	err := jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	showID, err := readShowIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := app.lockContext(r)
	defer cancel()

	seats, err := app.bookings.AvailableSeats(ctx, showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowId:         showID,
		AvailableSeats: toApiSeats(seats),
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CheckSeatAvailability(w http.ResponseWriter, r *http.Request) {
	showID, err := readShowIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.SeatAvailabilityRequest

	err = jsonutil.ReadJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	ctx, cancel := app.lockContext(r)
	defer cancel()

	available, err := app.bookings.AreAvailable(ctx, showID, input.SeatIds)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.SeatAvailabilityResponse{
		ShowId:    showID,
		SeatIds:   input.SeatIds,
		Available: available,
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingsForShow(w http.ResponseWriter, r *http.Request) {
	showID, err := readShowIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookings, err := app.bookings.GetBookingsForShow(showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.BookingsResponse{Bookings: toApiBookings(bookings)}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetPriceList(w http.ResponseWriter, r *http.Request) {
	prices := domain.PriceList()

	resp := api.PriceListResponse{
		Prices: make([]api.CategoryPrice, 0, len(prices)),
	}

	for _, category := range domain.SeatCategories {
		resp.Prices = append(resp.Prices, api.CategoryPrice{
			Category: string(category),
			Price:    prices[category],
		})
	}

	err := jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
