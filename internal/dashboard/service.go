// Package dashboard composes the feed fetchers into one page snapshot.
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/siweifamily/dashboard/internal/cache"
	"github.com/siweifamily/dashboard/internal/clock"
	"github.com/siweifamily/dashboard/internal/models"
	"github.com/siweifamily/dashboard/internal/observability"
)

// CurrencyFeed yields the exchange-rate block. Implemented by
// currency.Fetcher.
type CurrencyFeed interface {
	Rates(ctx context.Context) models.CurrencyRates
}

// WeatherFeed yields the per-location readings. Implemented by
// weather.Fetcher.
type WeatherFeed interface {
	Readings(ctx context.Context) []models.WeatherReading
}

// FuelFeed yields the fuel-grade prices. Implemented by fuel.Scraper.
type FuelFeed interface {
	Prices(ctx context.Context) models.FuelPrices
}

// Estimator yields one commute leg. Implemented by commute.Estimator.
type Estimator interface {
	Estimate(ctx context.Context, origin, destination string, baselineMinutes int, label string) models.CommuteLeg
}

// TTLs holds the per-feed cache lifetimes. Clock and commute results are
// always recomputed live.
type TTLs struct {
	Currency time.Duration
	Weather  time.Duration
	Fuel     time.Duration
}

// Service evaluates the full dashboard. Currency, weather and fuel results
// go through the TTL cache (cache-aside); every render performs the two
// commute legs per tracked destination live, since they depend on "now".
type Service struct {
	clock        *clock.Clock
	currency     CurrencyFeed
	weather      WeatherFeed
	fuel         FuelFeed
	estimator    Estimator
	cache        cache.Cache
	ttls         TTLs
	homeAddress  string
	destinations []models.Destination
	logger       *zap.Logger
}

// NewService wires the fetchers together.
func NewService(
	clk *clock.Clock,
	currencyFeed CurrencyFeed,
	weatherFeed WeatherFeed,
	fuelFeed FuelFeed,
	estimator Estimator,
	feedCache cache.Cache,
	ttls TTLs,
	homeAddress string,
	destinations []models.Destination,
	logger *zap.Logger,
) *Service {
	return &Service{
		clock:        clk,
		currency:     currencyFeed,
		weather:      weatherFeed,
		fuel:         fuelFeed,
		estimator:    estimator,
		cache:        feedCache,
		ttls:         ttls,
		homeAddress:  homeAddress,
		destinations: destinations,
		logger:       logger,
	}
}

// outboundLabel is the label every leg toward the home address carries;
// the estimator keys its gold base tier off it.
const outboundLabel = "往苗栗"

// Snapshot evaluates every feed in sequence and returns the full page data.
// It never fails: each feed's contract is total.
func (s *Service) Snapshot(ctx context.Context) models.Snapshot {
	now := time.Now()
	snap := models.Snapshot{
		Clock:     s.clock.Reading(now),
		Currency:  cachedFetch(ctx, s, cache.KeyCurrency, s.ttls.Currency, s.currency.Rates),
		Weather:   cachedFetch(ctx, s, cache.KeyWeather, s.ttls.Weather, s.weather.Readings),
		Fuel:      cachedFetch(ctx, s, cache.KeyFuel, s.ttls.Fuel, s.fuel.Prices),
		Generated: now,
	}

	snap.Commutes = make([]models.CommuteGroup, 0, len(s.destinations))
	for _, dest := range s.destinations {
		snap.Commutes = append(snap.Commutes, models.CommuteGroup{
			Name:     dest.Name,
			Outbound: s.estimator.Estimate(ctx, dest.Address, s.homeAddress, dest.BaselineOutbound, outboundLabel),
			Return:   s.estimator.Estimate(ctx, s.homeAddress, dest.Address, dest.BaselineReturn, dest.ReturnLabel),
		})
	}
	return snap
}

// Refresh invalidates every cached feed so the next render refetches.
func (s *Service) Refresh(ctx context.Context) error {
	observability.RefreshesTotal.Inc()
	if err := s.cache.DeleteAll(ctx); err != nil {
		observability.CacheErrorsTotal.WithLabelValues("invalidate").Inc()
		return err
	}
	if s.logger != nil {
		s.logger.Info("feed caches invalidated")
	}
	return nil
}

// WarmFeeds evaluates the three cached feeds so a later render is served
// warm. Used by the background scheduler; commute legs are skipped since
// they are never cached.
func (s *Service) WarmFeeds(ctx context.Context) {
	cachedFetch(ctx, s, cache.KeyCurrency, s.ttls.Currency, s.currency.Rates)
	cachedFetch(ctx, s, cache.KeyWeather, s.ttls.Weather, s.weather.Readings)
	cachedFetch(ctx, s, cache.KeyFuel, s.ttls.Fuel, s.fuel.Prices)
}

// cachedFetch is the cache-aside step shared by the cached feeds: return
// the JSON-cached value when present, otherwise fetch and fill. Cache
// backend failures degrade to a plain fetch.
func cachedFetch[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func(context.Context) T) T {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		observability.CacheErrorsTotal.WithLabelValues("get").Inc()
	} else if ok {
		var v T
		if unmarshalErr := json.Unmarshal(data, &v); unmarshalErr == nil {
			observability.CacheHitsTotal.WithLabelValues(key).Inc()
			if s.logger != nil {
				s.logger.Debug("feed cache hit", zap.String("feed", key))
			}
			return v
		}
	}

	v := fetch(ctx)
	if data, marshalErr := json.Marshal(v); marshalErr == nil {
		if setErr := s.cache.Set(ctx, key, data, ttl); setErr != nil {
			observability.CacheErrorsTotal.WithLabelValues("set").Inc()
			if s.logger != nil {
				s.logger.Warn("feed cache set failed", zap.String("feed", key), zap.Error(setErr))
			}
		}
	}
	return v
}
