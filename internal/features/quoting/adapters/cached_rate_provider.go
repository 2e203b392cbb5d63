package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/quoting/domain"
	"shipdesk/internal/features/quoting/ports"

	"go.uber.org/zap"
)

// CachedRateProvider reuses rate answers for identical boxes on the same lane.
// Cache failures degrade to a direct lookup. Failed lookups are never cached.
type CachedRateProvider struct {
	next  ports.RateProvider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedRateProvider wraps next with a cache. A zero ttl disables caching.
func NewCachedRateProvider(next ports.RateProvider, c cache.Cache, ttl time.Duration) *CachedRateProvider {
	return &CachedRateProvider{next: next, cache: c, ttl: ttl}
}

// GetRates implements ports.RateProvider.
func (p *CachedRateProvider) GetRates(ctx context.Context, req ports.RateRequest) (map[string]domain.ServiceRate, error) {
	if p.ttl <= 0 || p.cache == nil {
		return p.next.GetRates(ctx, req)
	}

	log := logger.Named("rate_cache")
	key := rateKey(req)

	if data, err := p.cache.Get(ctx, key); err == nil {
		var rates map[string]domain.ServiceRate
		if err := json.Unmarshal(data, &rates); err == nil && len(rates) > 0 {
			log.Debug("Rate cache hit", zap.String("key", key))
			return rates, nil
		}
		log.Warn("Discarding unreadable cached rates", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrKeyNotFound) {
		log.Warn("Rate cache read failed", zap.String("key", key), zap.Error(err))
	}

	rates, err := p.next.GetRates(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rates); err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			log.Warn("Rate cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return rates, nil
}

func rateKey(req ports.RateRequest) string {
	b := req.Box
	return fmt.Sprintf("rates:%s-%s:%s-%s:%sx%sx%s:%s",
		req.Origin.State, req.Origin.PostalCode,
		req.Destination.State, req.Destination.PostalCode,
		formatNumber(b.Length), formatNumber(b.Width), formatNumber(b.CurrentDepth),
		formatWeight(b.Weight),
	)
}
