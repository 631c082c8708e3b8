package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

var ErrCatalogSchemaMissing = errors.New("catalog schema missing, run the migrations first")

type PostgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db: db,
	}
}

const showColumns = `
		sh.id,
		sh.start_time,
		m.id,
		m.title,
		m.genre,
		m.language,
		m.duration_minutes,
		t.id,
		t.name,
		t.city,
		t.address,
		sc.id`

func (p *PostgresCatalogRepository) ListShows(ctx context.Context) ([]domain.Show, error) {
	query := `SELECT` + showColumns + `
		FROM shows sh
		JOIN movies m
			ON sh.movie_id = m.id
		JOIN screens sc
			ON sh.screen_id = sc.id
		JOIN theaters t
			ON sc.theater_id = t.id
		ORDER BY sh.id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, wrapSchemaError(err)
	}

	shows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Show, error) {
		var show domain.Show
		err := scanShow(row, &show)
		return show, err
	})
	if err != nil {
		return nil, wrapSchemaError(err)
	}

	for i := range shows {
		shows[i].Seats, err = p.seatsOfScreen(ctx, shows[i].Venue.ScreenID)
		if err != nil {
			return nil, err
		}
	}

	return shows, nil
}

func (p *PostgresCatalogRepository) GetShow(ctx context.Context, showID int) (*domain.Show, error) {
	query := `SELECT` + showColumns + `
		FROM shows sh
		JOIN movies m
			ON sh.movie_id = m.id
		JOIN screens sc
			ON sh.screen_id = sc.id
		JOIN theaters t
			ON sc.theater_id = t.id
		WHERE sh.id = $1`

	var show domain.Show

	err := scanShow(p.db.QueryRow(ctx, query, showID), &show)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("show %d: %w", showID, domain.ErrRecordNotFound)
		}

		return nil, wrapSchemaError(err)
	}

	show.Seats, err = p.seatsOfScreen(ctx, show.Venue.ScreenID)
	if err != nil {
		return nil, err
	}

	return &show, nil
}

func (p *PostgresCatalogRepository) seatsOfScreen(ctx context.Context, screenID int) ([]domain.Seat, error) {
	query := `
		SELECT seat_number, category
		FROM seats
		WHERE screen_id = $1
		ORDER BY seat_number`

	rows, err := p.db.Query(ctx, query, screenID)
	if err != nil {
		return nil, wrapSchemaError(err)
	}
	defer rows.Close()

	seats := []domain.Seat{}

	for rows.Next() {
		seat := domain.Seat{Available: true}

		err = rows.Scan(&seat.ID, &seat.Category)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapSchemaError(err)
	}

	return seats, nil
}

func scanShow(row pgx.Row, show *domain.Show) error {
	return row.Scan(
		&show.ID,
		&show.StartTime,
		&show.Movie.ID,
		&show.Movie.Title,
		&show.Movie.Genre,
		&show.Movie.Language,
		&show.Movie.DurationMinutes,
		&show.Venue.TheaterID,
		&show.Venue.TheaterName,
		&show.Venue.City,
		&show.Venue.Address,
		&show.Venue.ScreenID,
	)
}

func wrapSchemaError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrCatalogSchemaMissing, pgErr.Message)
	}

	return err
}
