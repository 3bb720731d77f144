package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memcache "github.com/prn-tf/citypulse/internal/cache/memory"
	"github.com/prn-tf/citypulse/internal/domain"
)

const searchBody = `{
	"_embedded": {
		"events": [
			{
				"id": "evt1",
				"name": "Jazz Night",
				"info": "Smooth evening set",
				"images": [{"url": "https://img/1.jpg", "width": 640, "height": 360}],
				"dates": {"start": {"localDate": "2026-09-12"}},
				"_embedded": {"venues": [{"name": "Blue Hall", "city": {"name": "Dubai"}}]}
			},
			{"id": "evt2", "name": "Open Mic", "pleaseNote": "Doors at 7"}
		]
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := memcache.NewCache()
	t.Cleanup(cache.Stop)

	client := NewClient(Config{
		BaseURL:  server.URL,
		APIKey:   "test-key",
		Timeout:  time.Second,
		CacheTTL: time.Minute,
	}, cache, zerolog.Nop())
	return client, server
}

func TestSearchEventsDecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "jazz", r.URL.Query().Get("keyword"))
		assert.Equal(t, "Dubai", r.URL.Query().Get("city"))
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		w.Write([]byte(searchBody))
	}))

	events, err := client.SearchEvents(context.Background(), "jazz", "Dubai", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "evt1", events[0].ID)
	assert.Equal(t, "Jazz Night", events[0].Name)
	assert.Equal(t, "Blue Hall", events[0].VenueName)
	assert.Equal(t, "Dubai", events[0].VenueCity)
	assert.Equal(t, "2026-09-12", events[0].LocalDate)
	require.Len(t, events[0].Images, 1)
	assert.Equal(t, 640, events[0].Images[0].Width)

	// pleaseNote stands in when info is absent.
	assert.Equal(t, "Doors at 7", events[1].Info)
	assert.Empty(t, events[1].VenueName)
}

func TestSearchEventsEmptyResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	events, err := client.SearchEvents(context.Background(), "nothing", "", 0, 20)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestSearchEventsServedFromCache(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(searchBody))
	}))

	ctx := context.Background()
	first, err := client.SearchEvents(ctx, "jazz", "Dubai", 0, 20)
	require.NoError(t, err)
	second, err := client.SearchEvents(ctx, "jazz", "Dubai", 0, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())

	// A different page misses the cache.
	_, err = client.SearchEvents(ctx, "jazz", "Dubai", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetEventByID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/evt1.json", r.URL.Path)
		w.Write([]byte(`{"id": "evt1", "name": "Jazz Night"}`))
	}))

	event, err := client.GetEventByID(context.Background(), "evt1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", event.Name)
}

func TestGetEventByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetEventByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = client.GetEventByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestGetEventByIDUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetEventByID(context.Background(), "evt1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEventNotFound)
}

func TestHydrateFavoritesSkipsUnresolvable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events/evt1.json":
			w.Write([]byte(`{"id": "evt1", "name": "Jazz Night"}`))
		case "/events/evt3.json":
			w.Write([]byte(`{"id": "evt3", "name": "Open Mic"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	events := client.HydrateFavorites(context.Background(), []string{"evt1", "gone", "evt3"})
	require.Len(t, events, 2)
	assert.Equal(t, "evt1", events[0].ID)
	assert.Equal(t, "evt3", events[1].ID)
}
