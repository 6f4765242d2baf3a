package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	venueserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/errors"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVenueRepository struct {
	createFunc  func(ctx context.Context, v *model.Venue) error
	findAllFunc func(ctx context.Context) ([]*model.Venue, error)
	deleteFunc  func(ctx context.Context, id string) error
	findAllHits int
}

func (m *mockVenueRepository) Create(ctx context.Context, v *model.Venue) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, v)
	}
	v.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockVenueRepository) FindAll(ctx context.Context) ([]*model.Venue, error) {
	m.findAllHits++
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Venue{{Name: "Hall A"}, {Name: "Hall B"}}, nil
}

func (m *mockVenueRepository) FindByID(context.Context, string) (*model.Venue, error) {
	return nil, venueserrors.ErrNotFound
}

func (m *mockVenueRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type memoryCache struct {
	names       []string
	cached      bool
	getErr      error
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]string, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.names, c.cached, nil
}

func (c *memoryCache) Set(_ context.Context, names []string) error {
	c.names, c.cached = names, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.names, c.cached = nil, false
	c.invalidated++
	return nil
}

func TestListNamesUsesCache(t *testing.T) {
	repo := &mockVenueRepository{}
	c := &memoryCache{}
	svc := NewVenueService(repo, c, logger.NewNop())

	first, err := svc.ListNames(context.Background())
	require.NoError(t, err)
	second, err := svc.ListNames(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Hall A", "Hall B"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findAllHits)
}

func TestListNamesFallsBackWhenCacheFails(t *testing.T) {
	repo := &mockVenueRepository{}
	svc := NewVenueService(repo, &memoryCache{getErr: errors.New("connection refused")}, logger.NewNop())

	names, err := svc.ListNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hall A", "Hall B"}, names)
}

func TestListNamesPropagatesStoreFailure(t *testing.T) {
	repo := &mockVenueRepository{findAllFunc: func(context.Context) ([]*model.Venue, error) {
		return nil, errors.New("no reachable servers")
	}}
	svc := NewVenueService(repo, nil, logger.NewNop())

	_, err := svc.ListNames(context.Background())
	assert.Error(t, err)
}

func TestCreateVenue(t *testing.T) {
	c := &memoryCache{cached: true, names: []string{"Hall A"}}
	var stored *model.Venue
	repo := &mockVenueRepository{createFunc: func(_ context.Context, v *model.Venue) error {
		stored = v
		return nil
	}}
	svc := NewVenueService(repo, c, logger.NewNop())

	v, err := svc.Create(context.Background(), &model.VenueRequest{Name: "  Main   Terrace ", Capacity: 150})
	require.NoError(t, err)

	assert.Equal(t, "Main Terrace", v.Name)
	assert.Equal(t, "main terrace", stored.Key)
	assert.Equal(t, 1, c.invalidated)
}

func TestCreateVenueRejections(t *testing.T) {
	tests := []struct {
		name string
		req  *model.VenueRequest
		repo *mockVenueRepository
		code string
	}{
		{"nil request", nil, &mockVenueRepository{}, apperrors.CodeInvalidInput},
		{"blank name", &model.VenueRequest{Name: "   "}, &mockVenueRepository{}, apperrors.CodeValidation},
		{"bypass name", &model.VenueRequest{Name: "House"}, &mockVenueRepository{}, apperrors.CodeValidation},
		{"duplicate", &model.VenueRequest{Name: "Hall A"}, &mockVenueRepository{createFunc: func(context.Context, *model.Venue) error {
			return fmt.Errorf("%w: Hall A", venueserrors.ErrDuplicate)
		}}, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewVenueService(tt.repo, nil, logger.NewNop())
			_, err := svc.Create(context.Background(), tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDeleteVenue(t *testing.T) {
	c := &memoryCache{cached: true}
	svc := NewVenueService(&mockVenueRepository{}, c, logger.NewNop())
	require.NoError(t, svc.Delete(context.Background(), "507f1f77bcf86cd799439011"))
	assert.Equal(t, 1, c.invalidated)

	svc = NewVenueService(&mockVenueRepository{deleteFunc: func(_ context.Context, id string) error {
		return fmt.Errorf("%w: %s", venueserrors.ErrNotFound, id)
	}}, c, logger.NewNop())
	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	svc = NewVenueService(&mockVenueRepository{deleteFunc: func(_ context.Context, id string) error {
		return fmt.Errorf("%w: %s", venueserrors.ErrInvalidID, id)
	}}, c, logger.NewNop())
	err = svc.Delete(context.Background(), "nope")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
