package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/middleware"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

type mockVenueService struct {
	listFunc   func(ctx context.Context) ([]*model.Venue, error)
	createFunc func(ctx context.Context, req *model.VenueRequest) (*model.Venue, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockVenueService) List(ctx context.Context) ([]*model.Venue, error) {
	return m.listFunc(ctx)
}

func (m *mockVenueService) Create(ctx context.Context, req *model.VenueRequest) (*model.Venue, error) {
	return m.createFunc(ctx, req)
}

func (m *mockVenueService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockVenueService) ListNames(context.Context) ([]string, error) {
	return nil, nil
}

func serve(svc *mockVenueService, req *http.Request, role middleware.Role) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewVenueHandler(svc, logger.NewNop()).RegisterRoutes(router)

	req = req.WithContext(middleware.WithPrincipal(req.Context(), &middleware.Principal{Subject: "u", Role: role}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListVenues(t *testing.T) {
	svc := &mockVenueService{listFunc: func(context.Context) ([]*model.Venue, error) {
		return []*model.Venue{{ID: "1", Name: "Hall A", Key: "hall a"}}, nil
	}}

	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil), middleware.RoleViewer)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []model.Venue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Hall A", body.Data[0].Name)
}

func TestListVenuesUnavailable(t *testing.T) {
	svc := &mockVenueService{listFunc: func(context.Context) ([]*model.Venue, error) {
		return nil, apperrors.DependencyUnavailable("venue catalog", nil)
	}}

	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil), middleware.RoleViewer)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dependency":"venue catalog"`)
}

func TestCreateVenueRequiresAdmin(t *testing.T) {
	svc := &mockVenueService{createFunc: func(_ context.Context, req *model.VenueRequest) (*model.Venue, error) {
		return &model.Venue{ID: "1", Name: req.Name}, nil
	}}

	rec := serve(svc, httptest.NewRequest(http.MethodPost, "/api/v1/venues", strings.NewReader(`{"name":"Terrace"}`)), middleware.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(svc, httptest.NewRequest(http.MethodPost, "/api/v1/venues", strings.NewReader(`{"name":"Terrace"}`)), middleware.RoleAdmin)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteVenue(t *testing.T) {
	var deleted string
	svc := &mockVenueService{deleteFunc: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}

	rec := serve(svc, httptest.NewRequest(http.MethodDelete, "/api/v1/venues/id/abc", nil), middleware.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", deleted)
}
