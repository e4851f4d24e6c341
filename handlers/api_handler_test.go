package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometownhero/bannerdesk/database"
	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/services"
)

func newTestAPI(t *testing.T) (*API, *database.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := database.Open(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "hh.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, seed := range []struct {
		hero, sponsor string
		paid          bool
	}{
		{"John Doe", "Jane Doe", true},
		{"Bill Smith", "Bob Smith", false},
	} {
		b, err := store.GetOrCreate(ctx, seed.hero, seed.sponsor)
		require.NoError(t, err)
		b.PaymentVerified = seed.paid
		require.NoError(t, store.Update(ctx, b))
	}
	require.NoError(t, store.RecordImportRun(ctx, &models.ImportRun{ID: "run-1", HeroSource: "heroes.csv", PaymentSource: "payments.csv", TotalHeroes: 2}))

	imports := services.NewImportService(store, store, t.TempDir(), nil)
	return NewAPI(services.NewBannerService(store, nil), imports, store, nil), store
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := get(t, api.Routes(), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthReportsDatabaseDown(t *testing.T) {
	api, _ := newTestAPI(t)
	api.db = downDB{}
	rec := get(t, api.Routes(), "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database connection error")
}

func TestListBanners(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Routes()

	var all []map[string]any
	rec := get(t, h, "/api/banners")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	var paid []map[string]any
	rec = get(t, h, "/api/banners?status=paid")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paid))
	require.Len(t, paid, 1)
	assert.Equal(t, "John Doe", paid[0]["hero_name"])
	assert.Equal(t, models.StatusPaidInfoIncomplete, paid[0]["status"])

	var found []map[string]any
	rec = get(t, h, "/api/banners?q=bob")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Bill Smith", found[0]["hero_name"])
}

func TestSummaryEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := get(t, api.Routes(), "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var sum services.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Paid)
}

func TestListImports(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Routes()

	var runs []models.ImportRun
	rec := get(t, h, "/api/imports?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)

	rec = get(t, h, "/api/imports?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid limit")
}

func TestWritesAreNotRouted(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := httptest.NewRecorder()
	api.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/banners", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
