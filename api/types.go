// Package api holds the JSON request and response bodies of the HTTP API,
// along with the OpenAPI document describing them.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Movie struct {
	Id              int    `json:"id"`
	Title           string `json:"title"`
	Genre           string `json:"genre"`
	Language        string `json:"language"`
	DurationMinutes int    `json:"durationMinutes"`
}

type Venue struct {
	TheaterId   int    `json:"theaterId"`
	TheaterName string `json:"theaterName"`
	ScreenId    int    `json:"screenId"`
	City        string `json:"city"`
	Address     string `json:"address"`
}

type Show struct {
	Id         int       `json:"id"`
	Movie      Movie     `json:"movie"`
	Venue      Venue     `json:"venue"`
	StartTime  time.Time `json:"startTime"`
	TotalSeats int       `json:"totalSeats"`
}

type ShowsResponse struct {
	Shows []Show `json:"shows"`
}

type Seat struct {
	Id       int             `json:"id"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type SeatMapResponse struct {
	ShowId         int    `json:"showId"`
	AvailableSeats []Seat `json:"availableSeats"`
}

type SeatAvailabilityRequest struct {
	SeatIds []int `json:"seatIds" validate:"required,min=1,unique,dive,gt=0"`
}

type SeatAvailabilityResponse struct {
	ShowId    int   `json:"showId"`
	SeatIds   []int `json:"seatIds"`
	Available bool  `json:"available"`
}

type CategoryPrice struct {
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type PriceListResponse struct {
	Prices []CategoryPrice `json:"prices"`
}

type CreateBookingRequest struct {
	CustomerId string `json:"customerId" validate:"required,max=64"`
	ShowId     int    `json:"showId" validate:"required,gt=0"`
	SeatIds    []int  `json:"seatIds" validate:"required,min=1,unique,dive,gt=0"`
}

type ConfirmPaymentRequest struct {
	PaymentMode string `json:"paymentMode" validate:"required,payment_mode"`
}

type Payment struct {
	Id          int64           `json:"id"`
	BookingId   string          `json:"bookingId"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	ProcessedAt time.Time       `json:"processedAt"`
}

type Booking struct {
	Id                   string          `json:"id"`
	ShowId               int             `json:"showId"`
	CustomerId           string          `json:"customerId"`
	Seats                []Seat          `json:"seats"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	Status               string          `json:"status"`
	PaymentAttempts      int             `json:"paymentAttempts"`
	Payment              *Payment        `json:"payment,omitempty"`
	AwaitingPaymentRetry bool            `json:"awaitingPaymentRetry"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type BookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

type BookingDetailsResponse struct {
	Booking Booking `json:"booking"`
	Show    Show    `json:"show"`
}

type PaymentDeclinedResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Booking   Booking   `json:"booking"`
}

type PaymentStats struct {
	TotalPayments      int             `json:"totalPayments"`
	SuccessfulPayments int             `json:"successfulPayments"`
	FailedPayments     int             `json:"failedPayments"`
	AmountPaid         decimal.Decimal `json:"amountPaid"`
	AverageAmount      decimal.Decimal `json:"averageAmount"`
}

type CustomerPaymentsResponse struct {
	Payments []Payment    `json:"payments"`
	Stats    PaymentStats `json:"stats"`
}
