package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/jsonutil"
)

func (app *Application) GetPaymentsForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := readCustomerIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.CustomerPaymentsResponse{
		Payments: toApiPayments(app.ledger.ForCustomer(customerID)),
		Stats:    toApiPaymentStats(app.ledger.CustomerStats(customerID)),
	}

	err = jsonutil.WriteJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
