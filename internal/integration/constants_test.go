package integration_test

const (
	dbName         = "showtime_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
	migrationsPath = "file://../../migrations"

	eventsChannel = "booking-events-test"

	// Seeded by the demo catalog migration.
	TestShowCount    = 3
	TestSeatsPerShow = 20
	TestMovieTitle   = "Avengers: Endgame"
	TestTheaterName  = "MG Road Cinemas"
)
