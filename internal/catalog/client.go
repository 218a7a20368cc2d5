// Package catalog is the read-only TMDb client. Responses are fetched
// network-first and mirrored into a cache that is served when the upstream
// fails, so listings keep working through short outages.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movie-discovery/pkg/metrics"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

const (
	cachePrefix  = "catalog:"
	maxPage      = 500
	maxBodyBytes = 4 << 20
)

var (
	movieCategories = map[string]bool{"popular": true, "top_rated": true, "now_playing": true, "upcoming": true}
	tvCategories    = map[string]bool{"popular": true, "top_rated": true, "on_the_air": true, "airing_today": true}
)

type Client struct {
	baseURL   string
	imageBase string
	apiKey    string
	language  string
	ttl       time.Duration
	http      *http.Client
	cache     Cache
	log       *zap.Logger
}

func NewClient(cfg utils.TMDBConfig, cache Cache, log *zap.Logger) *Client {
	if cache == nil {
		cache = NopCache{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		imageBase: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:    cfg.APIKey,
		language:  cfg.Language,
		ttl:       cfg.CacheTTL,
		http:      &http.Client{Timeout: timeout},
		cache:     cache,
		log:       log.With(zap.String("component", "catalog")),
	}
}

// Trending lists trending titles. mediaType is all, movie, tv or person;
// window is day or week.
func (c *Client) Trending(ctx context.Context, mediaType, window string, page int) (*Page, error) {
	switch mediaType {
	case "all", "movie", "tv", "person":
	default:
		return nil, fmt.Errorf("%w: media type %q", ErrInvalidInput, mediaType)
	}
	if window != "day" && window != "week" {
		return nil, fmt.Errorf("%w: time window %q", ErrInvalidInput, window)
	}

	var out Page
	err := c.get(ctx, "trending", fmt.Sprintf("/trending/%s/%s", mediaType, window), pageParams(page), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List serves the fixed category listings such as popular or now_playing.
func (c *Client) List(ctx context.Context, mediaType, category string, page int) (*Page, error) {
	if err := validateCategory(mediaType, category); err != nil {
		return nil, err
	}

	var out Page
	err := c.get(ctx, category, fmt.Sprintf("/%s/%s", mediaType, category), pageParams(page), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Genres(ctx context.Context, mediaType string) ([]Genre, error) {
	if err := validateMediaType(mediaType); err != nil {
		return nil, err
	}

	var out genreList
	if err := c.get(ctx, "genres", fmt.Sprintf("/genre/%s/list", mediaType), nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Search queries multi, movie or tv search.
func (c *Client) Search(ctx context.Context, mediaType, query string, page int) (*Page, error) {
	switch mediaType {
	case "multi", "movie", "tv":
	default:
		return nil, fmt.Errorf("%w: search type %q", ErrInvalidInput, mediaType)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &Page{Page: 1, Results: []Title{}}, nil
	}

	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")

	var out Page
	if err := c.get(ctx, "search", "/search/"+mediaType, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Details(ctx context.Context, mediaType string, id int) (*Details, error) {
	if err := validateTitle(mediaType, id); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("append_to_response", "credits")

	var out Details
	if err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", mediaType, id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Videos(ctx context.Context, mediaType string, id int) ([]Video, error) {
	if err := validateTitle(mediaType, id); err != nil {
		return nil, err
	}

	var out videoList
	if err := c.get(ctx, "videos", fmt.Sprintf("/%s/%d/videos", mediaType, id), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// WatchProviders returns streaming availability keyed by ISO region code.
func (c *Client) WatchProviders(ctx context.Context, mediaType string, id int) (map[string]RegionProviders, error) {
	if err := validateTitle(mediaType, id); err != nil {
		return nil, err
	}

	var out providerList
	if err := c.get(ctx, "providers", fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = map[string]RegionProviders{}
	}
	return out.Results, nil
}

// Discover filters by genre. Any of genreIDs matches. sortBy defaults to
// popularity.desc.
func (c *Client) Discover(ctx context.Context, mediaType string, genreIDs []int, sortBy string, page int) (*Page, error) {
	if err := validateMediaType(mediaType); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = "popularity.desc"
	}

	params := pageParams(page)
	params.Set("sort_by", sortBy)
	params.Set("include_adult", "false")
	if len(genreIDs) > 0 {
		ids := make([]string, len(genreIDs))
		for i, id := range genreIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("with_genres", strings.Join(ids, "|"))
	}

	var out Page
	if err := c.get(ctx, "discover", "/discover/"+mediaType, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeCache drops every cached catalog response.
func (c *Client) PurgeCache(ctx context.Context) (int64, error) {
	return c.cache.Purge(ctx, cachePrefix)
}

// get fetches path and decodes it into out. Transport errors, 429 and 5xx
// fall back to the cached body; 404 and 401 are returned as is.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}

	key := cachePrefix + path + "?" + params.Encode()

	body, status, err := c.fetch(ctx, path, params)
	switch {
	case err == nil && status == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		metrics.CatalogRequests.WithLabelValues(endpoint, "ok").Inc()

		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			c.log.Warn("Failed to cache catalog response", zap.String("key", key), zap.Error(err))
		} else {
			metrics.CatalogCache.WithLabelValues("store").Inc()
		}
		return nil

	case err == nil && status == http.StatusNotFound:
		metrics.CatalogRequests.WithLabelValues(endpoint, "not_found").Inc()
		return ErrNotFound

	case err == nil && status == http.StatusUnauthorized:
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		c.log.Error("Catalog API key rejected", zap.String("endpoint", endpoint))
		return ErrUnauthorized

	case err == nil && status < http.StatusInternalServerError && status != http.StatusTooManyRequests:
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: upstream status %d", ErrInvalidInput, status)
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
	if err == nil {
		err = fmt.Errorf("upstream status %d", status)
	}

	cached, ok, cacheErr := c.cache.Get(ctx, key)
	if cacheErr != nil {
		c.log.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(cacheErr))
	}
	if ok {
		if jsonErr := json.Unmarshal(cached, out); jsonErr == nil {
			metrics.CatalogCache.WithLabelValues("stale_hit").Inc()
			c.log.Warn("Serving stale catalog response",
				zap.String("endpoint", endpoint), zap.Error(err))
			return nil
		}
	}

	metrics.CatalogCache.WithLabelValues("stale_miss").Inc()
	return fmt.Errorf("%w: %s: %v", ErrUpstream, endpoint, err)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	// v4 read tokens are JWTs and go in the header, v3 keys in the query
	if strings.HasPrefix(c.apiKey, "eyJ") {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	} else if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// PosterURL builds a full image URL. Empty paths stay empty.
func (c *Client) PosterURL(path, size string) string {
	return c.imageURL(path, size, "w500")
}

func (c *Client) BackdropURL(path, size string) string {
	return c.imageURL(path, size, "original")
}

func (c *Client) imageURL(path, size, def string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = def
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBase + "/" + size + path
}

// IsNotFound reports whether err means the title does not exist upstream.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func validateMediaType(mediaType string) error {
	if mediaType != "movie" && mediaType != "tv" {
		return fmt.Errorf("%w: media type %q", ErrInvalidInput, mediaType)
	}
	return nil
}

func validateCategory(mediaType, category string) error {
	if err := validateMediaType(mediaType); err != nil {
		return err
	}
	allowed := movieCategories
	if mediaType == "tv" {
		allowed = tvCategories
	}
	if !allowed[category] {
		return fmt.Errorf("%w: category %q for %s", ErrInvalidInput, category, mediaType)
	}
	return nil
}

func validateTitle(mediaType string, id int) error {
	if err := validateMediaType(mediaType); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: title id %d", ErrInvalidInput, id)
	}
	return nil
}
