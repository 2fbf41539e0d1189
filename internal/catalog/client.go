// Package catalog is the upstream fetch collaborator: an opaque client that
// either returns raw records or fails with a numeric status. The snapshot
// coordinator is its only caller on the cached path.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/structures"
)

// FetchError is the typed upstream failure. Status carries the HTTP status
// code (0 when the transport itself failed) and is propagated unchanged to
// the coordinator's caller.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed (status %d): %s", e.Status, e.Message)
}

type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Record, error)
	FetchById(ctx context.Context, id int) (*models.Record, error)
}

type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	logger   providers.Logger
	pageSize int
	maxRetry uint64
}

func NewClient(conf *structures.Config, logger providers.Logger) Fetcher {
	httpClient := resty.New().
		SetBaseURL(conf.Catalog.BaseURL).
		SetTimeout(conf.Catalog.Timeout).
		SetHeader("Accept", "application/json")

	limit := rate.Limit(conf.Catalog.RateLimit)
	if conf.Catalog.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := max(conf.Catalog.RateBurst, 1)

	return &Client{
		http:     httpClient,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
		pageSize: conf.Catalog.PageSize,
		maxRetry: uint64(max(conf.Catalog.MaxRetry, 0)),
	}
}

// FetchAll pages through the catalog until a short page signals the end.
func (c *Client) FetchAll(ctx context.Context) ([]models.Record, error) {
	var all []models.Record
	offset := 0
	for {
		page, err := c.fetchPage(ctx, c.pageSize, offset, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			break
		}
		offset += c.pageSize
	}
	c.logger.Debugf(providers.TypeApp, "catalog fetch complete: %d records", len(all))
	return all, nil
}

// FetchById fetches a single record directly, bypassing the snapshot.
func (c *Client) FetchById(ctx context.Context, id int) (*models.Record, error) {
	page, err := c.fetchPage(ctx, 1, 0, id)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, nil
	}
	return &page[0], nil
}

func (c *Client) fetchPage(ctx context.Context, limit, offset, id int) ([]models.Record, error) {
	var records []models.Record

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("limit", strconv.Itoa(limit)).
			SetQueryParam("offset", strconv.Itoa(offset))
		if id > 0 {
			req.SetQueryParam("id", strconv.Itoa(id))
		}

		resp, err := req.Get("/prototypes")
		if err != nil {
			return &FetchError{Status: 0, Message: err.Error()}
		}
		if resp.IsError() {
			fetchErr := &FetchError{Status: resp.StatusCode(), Message: resp.Status()}
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
				return backoff.Permanent(fetchErr)
			}
			return fetchErr
		}

		records = records[:0]
		if err := json.Unmarshal(resp.Body(), &records); err != nil {
			return backoff.Permanent(&FetchError{Status: resp.StatusCode(), Message: "malformed payload: " + err.Error()})
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetry), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Errorf(providers.TypeApp, "catalog fetch failed: %s", err)
		return nil, err
	}
	return records, nil
}
