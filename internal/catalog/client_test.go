package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protostats/internal/structures"
	"protostats/internal/testutil"
)

func catalogConfig(baseURL string, pageSize, maxRetry int) *structures.Config {
	return &structures.Config{
		Catalog: structures.CatalogConfig{
			BaseURL:  baseURL,
			PageSize: pageSize,
			Timeout:  5 * time.Second,
			MaxRetry: maxRetry,
		},
	}
}

func TestFetchAll_PagesUntilShortPage(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		// Pretend the catalog holds 5 records.
		fmt.Fprint(w, "[")
		wrote := false
		for i := offset; i < offset+limit && i < 5; i++ {
			if wrote {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":%d,"name":"proto %d"}`, i+1, i+1)
			wrote = true
		}
		fmt.Fprint(w, "]")
	}))
	defer server.Close()

	client := NewClient(catalogConfig(server.URL, 2, 0), &testutil.MockLogger{})

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, 1, records[0].Id)
	assert.Equal(t, 5, records[4].Id)
	// 2+2+1 means three pages; the short last page stops the loop.
	assert.Len(t, requests, 3)
}

func TestFetchAll_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"name":"recovered"}]`)
	}))
	defer server.Close()

	client := NewClient(catalogConfig(server.URL, 100, 3), &testutil.MockLogger{})

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recovered", records[0].Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchAll_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(catalogConfig(server.URL, 100, 5), &testutil.MockLogger{})

	_, err := client.FetchAll(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAll_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"an array"}`)
	}))
	defer server.Close()

	client := NewClient(catalogConfig(server.URL, 100, 3), &testutil.MockLogger{})

	_, err := client.FetchAll(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "malformed payload")
}

func TestFetchById(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "42" {
			fmt.Fprint(w, `[{"id":42,"name":"the answer"}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(catalogConfig(server.URL, 100, 0), &testutil.MockLogger{})

	record, err := client.FetchById(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "the answer", record.Name)

	record, err = client.FetchById(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	conf := catalogConfig(server.URL, 100, 10)
	conf.Catalog.RateLimit = 0.001
	conf.Catalog.RateBurst = 1
	client := NewClient(conf, &testutil.MockLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchAll(ctx)
	assert.Error(t, err)
}
