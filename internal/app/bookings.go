package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/jsonutil"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

	err := jsonutil.ReadJSON(w, r, &input)
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

	booking, err := app.bookings.CreateBooking(ctx, input.CustomerId, input.ShowId, input.SeatIds)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = jsonutil.WriteJSON(w, http.StatusCreated, toApiBooking(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingDetails(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readBookingIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	details, err := app.bookings.BookingDetails(bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.BookingDetailsResponse{
		Booking: toApiBooking(details.Booking),
		Show:    toApiShow(details.Show),
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readBookingIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ConfirmPaymentRequest

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

	booking, err := app.bookings.ConfirmPayment(r.Context(), bookingID, domain.PaymentMode(input.PaymentMode))
	if errors.Is(err, domain.ErrPaymentDeclined) {
		app.paymentRequiredResponse(w, r, booking)
		return
	}
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, toApiBooking(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readBookingIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := app.lockContext(r)
	defer cancel()

	cancelled, err := app.bookings.Cancel(ctx, bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if !cancelled {
		app.notFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetBookingsForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := readCustomerIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.BookingsResponse{
		Bookings: toApiBookings(app.bookings.GetBookingsForCustomer(customerID)),
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
