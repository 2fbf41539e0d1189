package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/services"
)

type ApiController struct {
	logger  providers.Logger
	service services.AnalysisServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.AnalysisServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// writeServiceError keeps the three failure modes distinct: still populating,
// upstream down, and id not found never collapse into a generic error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoData):
		http.Error(w, "No Data Yet", http.StatusServiceUnavailable)
	case errors.Is(err, services.ErrUpstream):
		http.Error(w, "Upstream Unavailable", http.StatusBadGateway)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "analysis", func() (any, error) {
		return ac.service.ServerAnalysis(r.Context())
	})
}

// GetClientAnalysis evaluates anniversary candidates against the viewer's
// clock, passed as ?now=RFC3339. The server clock is only a fallback; results
// computed with it are not authoritative for remote viewers. Never cached,
// because the answer depends on the caller's day boundary.
func (ac *ApiController) GetClientAnalysis(w http.ResponseWriter, r *http.Request) {
	hostNow := time.Now()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		hostNow = parsed
	}

	result, err := ac.service.ClientAnalysis(r.Context(), hostNow)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, result)
}

type recordListResponse struct {
	Records []models.Record `json:"records"`
	Stale   bool            `json:"stale"`
}

func (ac *ApiController) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, stale, err := ac.service.GetRecords(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, recordListResponse{Records: records, Stale: stale})
}

func (ac *ApiController) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	record, err := ac.service.GetRecord(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, record)
}

func (ac *ApiController) GetRandomRecord(w http.ResponseWriter, r *http.Request) {
	record, err := ac.service.GetRandomRecord(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, record)
}
