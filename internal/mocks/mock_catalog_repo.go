package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

type MockCatalogRepo struct {
	domain.CatalogRepository
	ListShowsFunc func(ctx context.Context) ([]domain.Show, error)
	GetShowFunc   func(ctx context.Context, id int) (*domain.Show, error)
}

func (m *MockCatalogRepo) ListShows(ctx context.Context) ([]domain.Show, error) {
	return m.ListShowsFunc(ctx)
}

func (m *MockCatalogRepo) GetShow(ctx context.Context, id int) (*domain.Show, error) {
	return m.GetShowFunc(ctx, id)
}
