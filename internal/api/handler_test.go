// internal/api/handler_test.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agent-catalog/internal/catalog"
	"agent-catalog/internal/model"
)

// MockStore is a mock of the catalog.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SelectProjects(ctx context.Context, filters catalog.Filters, now time.Time) ([]model.Project, error) {
	args := m.Called(ctx, filters, now)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockStore) DistinctLanguages(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) DistinctEngines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) StarsRange(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func setupRouter(store *MockStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRouter(catalog.NewService(store), logger)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(new(MockStore))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestListProjects(t *testing.T) {
	store := new(MockStore)
	router := setupRouter(store)

	store.On("SelectProjects", mock.Anything, mock.MatchedBy(func(f catalog.Filters) bool {
		return f.Language != nil && *f.Language == "Python" && f.Activity == catalog.ActivityActive
	}), mock.Anything).Return([]model.Project{
		{ID: 1, Name: "autogpt", Slug: "significant-gravitas-autogpt", RepoURL: "https://github.com/significant-gravitas/autogpt", HealthScore: 42},
	}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects?language=Python&activity=active", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var cards []model.ProjectCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "significant-gravitas-autogpt", cards[0].Slug)
	assert.Equal(t, 42, cards[0].HealthScore)
	store.AssertExpectations(t)
}

func TestGetFacets(t *testing.T) {
	store := new(MockStore)
	router := setupRouter(store)

	store.On("DistinctLanguages", mock.Anything).Return([]string{"Go", "Python"}, nil).Once()
	store.On("DistinctEngines", mock.Anything).Return([]string{"gpt-4"}, nil).Once()
	store.On("StarsRange", mock.Anything).Return(10, 170000, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects/facets", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var facets catalog.Facets
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facets))
	assert.Equal(t, []string{"Go", "Python"}, facets.Languages)
	assert.Equal(t, catalog.StarsRange{Min: 10, Max: 170000}, facets.Stars)
	assert.Len(t, facets.Activities, 4)
}

func TestGetHomepage(t *testing.T) {
	store := new(MockStore)
	router := setupRouter(store)

	store.On("SelectProjects", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Project{{ID: 1, Slug: "a-alpha"}}, nil).Once()
	store.On("DistinctLanguages", mock.Anything).Return([]string{}, nil).Once()
	store.On("DistinctEngines", mock.Anything).Return([]string{}, nil).Once()
	store.On("StarsRange", mock.Anything).Return(0, 0, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/homepage?starsMin=500&starsMax=100", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var data catalog.HomepageData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Len(t, data.Projects, 1)
	// The inverted range was discarded during parsing.
	assert.Nil(t, data.Filters.StarsMin)
	assert.Nil(t, data.Filters.StarsMax)
}

func TestListProjects_StoreFailure(t *testing.T) {
	store := new(MockStore)
	router := setupRouter(store)

	store.On("SelectProjects", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Project(nil), assert.AnError).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
}
