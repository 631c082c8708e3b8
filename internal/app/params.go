package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

var (
	errInvalidShowID     = errors.New("show ID must be greater than zero")
	errInvalidBookingID  = errors.New("booking ID must not be empty")
	errInvalidCustomerID = errors.New("customer ID must not be empty")
)

func bindPathParam(r *http.Request, name string, dst any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
}

func readShowIDParam(r *http.Request) (int, error) {
	var showID int

	err := bindPathParam(r, "showId", &showID)
	if err != nil || showID < 1 {
		return 0, errInvalidShowID
	}

	return showID, nil
}

func readBookingIDParam(r *http.Request) (string, error) {
	var bookingID string

	err := bindPathParam(r, "bookingId", &bookingID)
	if err != nil || strings.TrimSpace(bookingID) == "" {
		return "", errInvalidBookingID
	}

	return bookingID, nil
}

func readCustomerIDParam(r *http.Request) (string, error) {
	var customerID string

	err := bindPathParam(r, "customerId", &customerID)
	if err != nil || strings.TrimSpace(customerID) == "" {
		return "", errInvalidCustomerID
	}

	return customerID, nil
}
