package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protostats/internal/analytics"
	"protostats/internal/anniversary"
	"protostats/internal/models"
	"protostats/internal/services"
	"protostats/internal/testutil"
)

// stubService lets each test script the service layer directly.
type stubService struct {
	records        []models.Record
	stale          bool
	recordsErr     error
	record         models.Record
	recordErr      error
	serverAnalysis *analytics.ServerAnalysis
	analysisErr    error
	clientResult   anniversary.ClientAnalysis
	clientErr      error
	clientNow      time.Time

	size    int
	builtAt time.Time
}

func (s *stubService) GetRecords(ctx context.Context) ([]models.Record, bool, error) {
	return s.records, s.stale, s.recordsErr
}

func (s *stubService) GetRecord(ctx context.Context, id int) (models.Record, error) {
	return s.record, s.recordErr
}

func (s *stubService) GetRandomRecord(ctx context.Context) (models.Record, error) {
	return s.record, s.recordErr
}

func (s *stubService) Refresh(ctx context.Context) error { return nil }

func (s *stubService) ServerAnalysis(ctx context.Context) (*analytics.ServerAnalysis, error) {
	return s.serverAnalysis, s.analysisErr
}

func (s *stubService) ClientAnalysis(ctx context.Context, hostNow time.Time) (anniversary.ClientAnalysis, error) {
	s.clientNow = hostNow
	return s.clientResult, s.clientErr
}

func (s *stubService) SnapshotInfo() (int, time.Time, bool) {
	return s.size, s.builtAt, s.stale
}

func newApiController(service services.AnalysisServiceInterface) (*ApiController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	return NewApiController(&testutil.MockLogger{}, service, cache), cache
}

func TestGetAnalysis_ComputedThenCached(t *testing.T) {
	svc := &stubService{serverAnalysis: &analytics.ServerAnalysis{TotalRecords: 5}}
	controller, cache := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result analytics.ServerAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.TotalRecords)

	_, ok := cache.Get("analysis")
	assert.True(t, ok)
}

func TestGetAnalysis_ServedFromCache(t *testing.T) {
	svc := &stubService{analysisErr: services.ErrNoData}
	controller, cache := newApiController(svc)
	cache.Set("analysis", []byte(`{"totalRecords":9}`))

	rec := httptest.NewRecorder()
	controller.GetAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis", nil))

	// Cache hit never touches the failing service.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalRecords":9}`, rec.Body.String())
}

func TestGetAnalysis_NoDataIs503(t *testing.T) {
	svc := &stubService{analysisErr: services.ErrNoData}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetRecords_UpstreamIs502(t *testing.T) {
	svc := &stubService{recordsErr: services.ErrUpstream}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetRecords(rec, httptest.NewRequest(http.MethodGet, "/records", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetRecords_IncludesStaleFlag(t *testing.T) {
	svc := &stubService{records: []models.Record{{Id: 1, Name: "a"}}, stale: true}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetRecords(rec, httptest.NewRequest(http.MethodGet, "/records", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result recordListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Stale)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.Records[0].Id)
}

func TestGetRecord_BadIdIs400(t *testing.T) {
	controller, _ := newApiController(&stubService{})

	for _, target := range []string{"/record", "/record?id=abc", "/record?id=0", "/record?id=-4"} {
		rec := httptest.NewRecorder()
		controller.GetRecord(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetRecord_NotFoundIs404(t *testing.T) {
	svc := &stubService{recordErr: services.ErrNotFound}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetRecord(rec, httptest.NewRequest(http.MethodGet, "/record?id=77", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecord_Found(t *testing.T) {
	svc := &stubService{record: models.Record{Id: 77, Name: "found"}}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetRecord(rec, httptest.NewRequest(http.MethodGet, "/record?id=77", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "found", result.Name)
}

func TestGetClientAnalysis_UsesNowParam(t *testing.T) {
	svc := &stubService{}
	controller, cache := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetClientAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis/client?now=2025-11-14T09:30:00%2B09:00", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2025, svc.clientNow.Year())
	assert.Equal(t, time.November, svc.clientNow.Month())
	_, offset := svc.clientNow.Zone()
	assert.Equal(t, 9*3600, offset)
	assert.Empty(t, cache.Data, "client analysis is never cached")
}

func TestGetClientAnalysis_BadNowIs400(t *testing.T) {
	controller, _ := newApiController(&stubService{})

	rec := httptest.NewRecorder()
	controller.GetClientAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis/client?now=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClientAnalysis_DefaultsToServerClock(t *testing.T) {
	svc := &stubService{}
	controller, _ := newApiController(svc)

	before := time.Now()
	rec := httptest.NewRecorder()
	controller.GetClientAnalysis(rec, httptest.NewRequest(http.MethodGet, "/analysis/client", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.clientNow.Before(before))
}

func TestGetRandomRecord(t *testing.T) {
	svc := &stubService{record: models.Record{Id: 3, Name: "lucky"}}
	controller, _ := newApiController(svc)

	rec := httptest.NewRecorder()
	controller.GetRandomRecord(rec, httptest.NewRequest(http.MethodGet, "/record/random", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Id)
}
