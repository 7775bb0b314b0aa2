package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

const configTTL = 5 * time.Minute

type Client struct {
	http *resty.Client
	cb   *gobreaker.CircuitBreaker[*resty.Response]
	log  *logrus.Logger

	sfg       singleflight.Group
	mu        sync.RWMutex
	config    *StoreConfig
	configExp time.Time
}

// NewClient builds a catalog client for the commerce API. httpClient may
// carry instrumentation (tracing transport); pass nil for a default one.
func NewClient(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")

	cb := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "commerce-api",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{http: rc, cb: cb, log: log}
}

func (c *Client) ListProducts(ctx context.Context, params ListParams) (*ProductPage, error) {
	query := map[string]string{}
	if params.Page > 0 {
		query["page"] = strconv.Itoa(params.Page)
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}
	if params.Search != "" {
		query["search"] = params.Search
	}
	if params.Featured {
		query["destaque"] = "true"
	}

	var page ProductPage
	if err := c.get(ctx, "/produtos", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.get(ctx, fmt.Sprintf("/produtos/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categorias", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var category Category
	if err := c.get(ctx, fmt.Sprintf("/categorias/%d", id), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) ListSlides(ctx context.Context) ([]Slide, error) {
	var slides []Slide
	if err := c.get(ctx, "/slides", nil, &slides); err != nil {
		return nil, err
	}
	return slides, nil
}

// StoreConfig returns the store configuration, cached in-process. All
// concurrent refreshes collapse into one upstream call.
func (c *Client) StoreConfig(ctx context.Context) (*StoreConfig, error) {
	c.mu.RLock()
	if c.config != nil && time.Now().Before(c.configExp) {
		cfg := *c.config
		c.mu.RUnlock()
		return &cfg, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sfg.Do("store-config", func() (interface{}, error) {
		var cfg StoreConfig
		if err := c.get(ctx, "/configuracoes", nil, &cfg); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.config = &cfg
		c.configExp = time.Now().Add(configTTL)
		c.mu.Unlock()

		return &cfg, nil
	})
	if err != nil {
		// Serve a stale config over an error when we have one.
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.config != nil {
			cfg := *c.config
			return &cfg, nil
		}
		return nil, err
	}

	cfg := *v.(*StoreConfig)
	return &cfg, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx).SetResult(out)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}

		resp, err := req.Get(path)
		if err != nil {
			return nil, err
		}
		// 5xx counts as a breaker failure, 4xx does not.
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, fmt.Errorf("commerce api returned %d for %s", resp.StatusCode(), path)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.WithField("path", path).Warn("commerce api circuit open")
			return fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("commerce api returned %d for %s", resp.StatusCode(), path)
	}
	return nil
}
