// Package recipe talks to a Food2Fork-compatible recipe search API.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

const (
	defaultBaseURL = "https://www.food2fork.com"
	defaultTimeout = 3 * time.Second

	searchPath = "/api/search"
	getPath    = "/api/get"

	// maxBodyBytes caps how much of an API response is read.
	maxBodyBytes = 4 << 20
)

// IndexFunc returns a pseudo-random index in [0, n).
type IndexFunc func(n int) int

// Config holds configuration for the recipe client
type Config struct {
	APIKey  string
	BaseURL string
	Sort    string
	Timeout time.Duration // applied to each API call separately

	// HTTPClient overrides the default instrumented client.
	HTTPClient *http.Client
	// IndexFunc overrides the random draw used by Lookup.
	IndexFunc  IndexFunc
	Logger     logger.Logger
}

// Client performs search and get calls against the recipe API.
type Client struct {
	apiKey  string
	baseURL string
	sort    string
	timeout time.Duration
	http    *http.Client
	pick    IndexFunc
	log     logger.Logger
}

// New creates a new recipe client
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("recipe API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid recipe API base URL: %w", err)
	}
	if cfg.Sort == "" {
		cfg.Sort = SortRating
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if cfg.IndexFunc == nil {
		cfg.IndexFunc = rand.IntN
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		sort:    cfg.Sort,
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		pick:    cfg.IndexFunc,
		log:     cfg.Logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search returns the first page of recipes matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Summary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("sort", c.sort)

	var resp searchResponse
	if err := c.get(ctx, searchPath, params, &resp); err != nil {
		return nil, fmt.Errorf("search recipes for %q: %w", query, err)
	}
	if resp.Recipes == nil {
		return nil, fmt.Errorf("search recipes for %q: missing recipes: %w", query, malformed(resp.Error))
	}
	return *resp.Recipes, nil
}

// Get returns the full recipe with the given identifier.
func (c *Client) Get(ctx context.Context, id string) (Recipe, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("rId", id)

	var resp getResponse
	if err := c.get(ctx, getPath, params, &resp); err != nil {
		return Recipe{}, fmt.Errorf("get recipe %s: %w", id, err)
	}
	if resp.Recipe == nil || resp.Recipe.Title == "" {
		return Recipe{}, fmt.Errorf("get recipe %s: missing recipe title: %w", id, malformed(resp.Error))
	}
	if resp.Recipe.ID == "" {
		resp.Recipe.ID = id
	}
	return *resp.Recipe, nil
}

// Lookup searches for ingredient, picks one result at a random index in
// [0, SearchPageSize) and fetches its details. A draw past the end of the
// result list yields ErrNoRecipe, even when the list is not empty.
func (c *Client) Lookup(ctx context.Context, ingredient string) (Recipe, error) {
	results, err := c.Search(ctx, ingredient)
	if err != nil {
		return Recipe{}, err
	}

	idx := c.pick(SearchPageSize)
	if idx < 0 || idx >= len(results) {
		c.log.Debug("Random index outside search results",
			logger.StringField("ingredient", ingredient),
			logger.IntField("index", idx),
			logger.IntField("results", len(results)))
		return Recipe{}, ErrNoRecipe
	}

	chosen := results[idx]
	c.log.Debug("Picked recipe from search results",
		logger.StringField("ingredient", ingredient),
		logger.StringField("recipe_id", chosen.ID),
		logger.IntField("index", idx))

	return c.Get(ctx, chosen.ID)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Recipe API call completed",
		logger.HTTPPathField(path),
		logger.HTTPStatusField(resp.StatusCode),
		logger.DurationField("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
