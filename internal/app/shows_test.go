package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ShowsTestSuite struct {
	suite.Suite
	app *Application
}

func (s *ShowsTestSuite) SetupTest() {
	s.app = newTestApplication(s.T(), new(mocks.MockPaymentProcessor))
}

func TestShowsSuite(t *testing.T) {
	suite.Run(t, new(ShowsTestSuite))
}

func (s *ShowsTestSuite) TestListShows() {
	w, r := executeRequest(s.T(), http.MethodGet, "/v1/shows", nil)
	serve(s.app, w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeBody[api.ShowsResponse](s.T(), w)
	s.Require().Len(resp.Shows, 3)

	ids := []int{resp.Shows[0].Id, resp.Shows[1].Id, resp.Shows[2].Id}
	s.Equal([]int{1, 2, 3}, ids)
	s.Equal("Avengers: Endgame", resp.Shows[0].Movie.Title)
	s.Equal("MG Road Cinemas", resp.Shows[0].Venue.TheaterName)
	s.Equal(20, resp.Shows[0].TotalSeats)
}

func (s *ShowsTestSuite) TestGetAvailableSeats() {
	tests := []struct {
		name           string
		showID         string
		setup          func()
		wantStatus     int
		wantSeats      int
		wantErrMessage string
	}{
		{
			name:           "should fail when show ID is zero",
			showID:         "0",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "show ID must be greater than zero",
		},
		{
			name:           "should fail when show ID is not a number",
			showID:         "abc",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "show ID must be greater than zero",
		},
		{
			name:           "should fail when show does not exist",
			showID:         "999",
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:       "should return every seat of a fresh show",
			showID:     "1",
			wantStatus: http.StatusOK,
			wantSeats:  20,
		},
		{
			name:   "should omit booked seats",
			showID: "1",
			setup: func() {
				_, err := s.app.bookings.CreateBooking(context.Background(), "alice", 1, []int{1, 2, 3})
				s.Require().NoError(err)
			},
			wantStatus: http.StatusOK,
			wantSeats:  17,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setup != nil {
				tt.setup()
			}

			w, r := executeRequest(s.T(), http.MethodGet, "/v1/shows/"+tt.showID+"/seats", nil)
			serve(s.app, w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				resp := decodeBody[api.SeatMapResponse](s.T(), w)
				s.Len(resp.AvailableSeats, tt.wantSeats)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ShowsTestSuite) TestAvailableSeatsCarryPrices() {
	w, r := executeRequest(s.T(), http.MethodGet, "/v1/shows/3/seats", nil)
	serve(s.app, w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	resp := decodeBody[api.SeatMapResponse](s.T(), w)
	s.Require().Len(resp.AvailableSeats, 20)

	s.Equal("premium", resp.AvailableSeats[0].Category)
	s.True(decimal.NewFromInt(500).Equal(resp.AvailableSeats[0].Price))
	s.Equal("standard", resp.AvailableSeats[19].Category)
	s.True(decimal.NewFromInt(100).Equal(resp.AvailableSeats[19].Price))
}

func (s *ShowsTestSuite) TestCheckSeatAvailability() {
	tests := []struct {
		name           string
		showID         string
		body           any
		setup          func()
		wantStatus     int
		wantAvailable  bool
		wantErrMessage string
	}{
		{
			name:           "should fail when body is malformed",
			showID:         "1",
			body:           map[string]any{"seatIds": "one"},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `body contains incorrect JSON type for field "seatIds"`,
		},
		{
			name:           "should fail when no seats are requested",
			showID:         "1",
			body:           api.SeatAvailabilityRequest{SeatIds: []int{}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "seatIds must contain at least 1 item(s)",
		},
		{
			name:           "should fail when seats repeat",
			showID:         "1",
			body:           api.SeatAvailabilityRequest{SeatIds: []int{4, 4}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "seatIds must not contain duplicates",
		},
		{
			name:           "should fail when show does not exist",
			showID:         "42",
			body:           api.SeatAvailabilityRequest{SeatIds: []int{1}},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:          "should report free seats as available",
			showID:        "1",
			body:          api.SeatAvailabilityRequest{SeatIds: []int{1, 2}},
			wantStatus:    http.StatusOK,
			wantAvailable: true,
		},
		{
			name:   "should report unavailable when any seat is booked",
			showID: "1",
			body:   api.SeatAvailabilityRequest{SeatIds: []int{1, 2}},
			setup: func() {
				_, err := s.app.bookings.CreateBooking(context.Background(), "alice", 1, []int{2})
				s.Require().NoError(err)
			},
			wantStatus:    http.StatusOK,
			wantAvailable: false,
		},
		{
			name:          "should report unavailable for seats outside the layout",
			showID:        "1",
			body:          api.SeatAvailabilityRequest{SeatIds: []int{21}},
			wantStatus:    http.StatusOK,
			wantAvailable: false,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setup != nil {
				tt.setup()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/v1/shows/"+tt.showID+"/seats/availability", tt.body)
			serve(s.app, w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				resp := decodeBody[api.SeatAvailabilityResponse](s.T(), w)
				s.Equal(tt.wantAvailable, resp.Available)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ShowsTestSuite) TestGetBookingsForShow() {
	ctx := context.Background()

	first, err := s.app.bookings.CreateBooking(ctx, "alice", 2, []int{1})
	s.Require().NoError(err)
	second, err := s.app.bookings.CreateBooking(ctx, "bob", 2, []int{2})
	s.Require().NoError(err)
	_, err = s.app.bookings.CreateBooking(ctx, "carol", 3, []int{1})
	s.Require().NoError(err)

	w, r := executeRequest(s.T(), http.MethodGet, "/v1/shows/2/bookings", nil)
	serve(s.app, w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	resp := decodeBody[api.BookingsResponse](s.T(), w)
	s.Require().Len(resp.Bookings, 2)
	s.Equal(first.ID, resp.Bookings[0].Id)
	s.Equal(second.ID, resp.Bookings[1].Id)

	w, r = executeRequest(s.T(), http.MethodGet, "/v1/shows/77/bookings", nil)
	serve(s.app, w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ShowsTestSuite) TestGetPriceList() {
	w, r := executeRequest(s.T(), http.MethodGet, "/v1/prices", nil)
	serve(s.app, w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	resp := decodeBody[api.PriceListResponse](s.T(), w)

	want := []api.CategoryPrice{
		{Category: "premium", Price: decimal.NewFromInt(500)},
		{Category: "gold", Price: decimal.NewFromInt(300)},
		{Category: "silver", Price: decimal.NewFromInt(200)},
		{Category: "standard", Price: decimal.NewFromInt(100)},
	}

	diff := cmp.Diff(want, resp.Prices, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }))
	s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
}
