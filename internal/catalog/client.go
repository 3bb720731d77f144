// Package catalog talks to the Ticketmaster Discovery v2 API and caches
// responses so favorites can be rendered without hammering the upstream.
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
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/repository"
)

// DefaultBaseURL is the public Discovery v2 endpoint.
const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute
	defaultPageSize = 20
)

// Config holds catalog client settings.
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig returns a Config with sane defaults. APIKey must still
// be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  defaultTimeout,
		CacheTTL: defaultCacheTTL,
	}
}

// Client queries the event catalog. All responses pass through the
// cache; a cache failure is logged and the upstream is queried anyway.
type Client struct {
	baseURL  string
	apiKey   string
	cacheTTL time.Duration
	http     *http.Client
	cache    repository.Cache
	keys     repository.CacheKey
	logger   zerolog.Logger
}

// NewClient creates a catalog client. cache may not be nil; use the
// in-memory cache for single-process runs.
func NewClient(cfg Config, cache repository.Cache, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		cacheTTL: cfg.CacheTTL,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// Discovery v2 wire types. Only the fields the app renders are decoded.
type eventPayload struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Images     []domain.EventImage `json:"images"`
	Info       string              `json:"info"`
	PleaseNote string              `json:"pleaseNote"`
	Dates      struct {
		Start struct {
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"venues"`
	} `json:"_embedded"`
}

type searchPayload struct {
	Embedded struct {
		Events []eventPayload `json:"events"`
	} `json:"_embedded"`
}

func (p *eventPayload) toDomain() domain.Event {
	ev := domain.Event{
		ID:        p.ID,
		Name:      p.Name,
		Images:    p.Images,
		Info:      p.Info,
		LocalDate: p.Dates.Start.LocalDate,
	}
	if ev.Info == "" {
		ev.Info = p.PleaseNote
	}
	if len(p.Embedded.Venues) > 0 {
		ev.VenueName = p.Embedded.Venues[0].Name
		ev.VenueCity = p.Embedded.Venues[0].City.Name
	}
	return ev
}

// SearchEvents queries the catalog by keyword and/or city. An empty
// result is a valid answer and is cached like any other.
func (c *Client) SearchEvents(ctx context.Context, keyword, city string, page, size int) ([]domain.Event, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	cacheKey := c.keys.Search(keyword, city, page, size)
	if cached, ok := c.fromCache(ctx, cacheKey); ok {
		var events []domain.Event
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
		c.logger.Warn().Str("key", cacheKey).Msg("discarding corrupt cached search result")
	}

	query := url.Values{}
	if keyword != "" {
		query.Set("keyword", keyword)
	}
	if city != "" {
		query.Set("city", city)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var payload searchPayload
	if err := c.get(ctx, "/events.json", query, &payload); err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}

	events := make([]domain.Event, 0, len(payload.Embedded.Events))
	for i := range payload.Embedded.Events {
		events = append(events, payload.Embedded.Events[i].toDomain())
	}

	c.toCache(ctx, cacheKey, events)
	return events, nil
}

// GetEventByID fetches a single event. Returns domain.ErrEventNotFound
// when the catalog has no such event.
func (c *Client) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, domain.ErrEventNotFound
	}

	cacheKey := c.keys.Event(id)
	if cached, ok := c.fromCache(ctx, cacheKey); ok {
		var event domain.Event
		if err := json.Unmarshal(cached, &event); err == nil {
			return &event, nil
		}
		c.logger.Warn().Str("key", cacheKey).Msg("discarding corrupt cached event")
	}

	var payload eventPayload
	if err := c.get(ctx, "/events/"+url.PathEscape(id)+".json", nil, &payload); err != nil {
		return nil, err
	}

	event := payload.toDomain()
	c.toCache(ctx, cacheKey, event)
	return &event, nil
}

// HydrateFavorites resolves favorite event IDs into full events.
// Failures for individual IDs are skipped so one stale favorite never
// hides the rest of the list.
func (c *Client) HydrateFavorites(ctx context.Context, eventIDs []string) []domain.Event {
	events := make([]domain.Event, 0, len(eventIDs))
	for _, id := range eventIDs {
		event, err := c.GetEventByID(ctx, id)
		if err != nil {
			c.logger.Debug().Err(err).Str("event_id", id).Msg("skipping unresolvable favorite")
			continue
		}
		events = append(events, *event)
	}
	return events
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrEventNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	value, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			c.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}
	return value, true
}

func (c *Client) toCache(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, encoded, c.cacheTTL); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
