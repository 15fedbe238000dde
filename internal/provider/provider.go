// Package provider orchestrates prayer time resolution: exact cache hit,
// then live fetch, then the previous day's cached record as a degraded
// fallback. Staleness is preferred over blocking or showing nothing.
package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amjadrushdan/waktu-solat/internal/api"
	"github.com/amjadrushdan/waktu-solat/internal/cache"
	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

// Fetcher is the slice of the API client the provider needs.
// *api.Client implements it; tests substitute a stub.
type Fetcher interface {
	FetchByCity(ctx context.Context, date time.Time, city, country string, method int) (*api.Response, error)
}

// Provider resolves a TimeSet for a (city, date) through the fallback tiers.
type Provider struct {
	cache   *cache.Cache
	client  Fetcher
	country string
	method  int
}

// New creates a Provider using the given cache and API client.
func New(c *cache.Cache, client Fetcher, country string, method int) *Provider {
	return &Provider{
		cache:   c,
		client:  client,
		country: country,
		method:  method,
	}
}

// Resolve returns the prayer times for the given city and date, trying in
// order: the exact cache key, a live fetch (which populates the cache),
// and the previous day's cache entry. It reports false when every tier
// comes up empty; no error ever crosses this boundary.
func (p *Provider) Resolve(ctx context.Context, city string, date time.Time) (prayer.TimeSet, bool) {
	key := cache.Key(city, date)

	if ts, ok := p.cache.Get(city, date); ok {
		log.Info().Str("key", key).Msg("using cached prayer times")
		return ts, true
	}

	resp, err := p.client.FetchByCity(ctx, date, city, p.country, p.method)
	if err == nil {
		ts := resp.Data.Timings.TimeSet()
		p.cache.Put(city, date, ts)
		log.Info().Str("key", key).Msg("fetched and cached prayer times")
		return ts, true
	}
	log.Warn().Err(err).Str("key", key).Msg("API fetch failed")

	// Stale-data fallback: yesterday's record for the same city.
	yesterday := date.AddDate(0, 0, -1)
	if ts, ok := p.cache.Get(city, yesterday); ok {
		log.Warn().Str("key", key).Str("fallback", cache.Key(city, yesterday)).
			Msg("using previous day's cache as fallback")
		return ts, true
	}

	log.Error().Str("key", key).Msg("no prayer times available")
	return prayer.TimeSet{}, false
}
