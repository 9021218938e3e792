package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
)

// CachedLocationAdapter wraps a LocationRepository with caching
type CachedLocationAdapter struct {
	adapter repositories.LocationRepository
	cache   providers.CacheProvider
}

// NewCachedLocationAdapter creates a new cached location adapter
func NewCachedLocationAdapter(adapter repositories.LocationRepository, cache providers.CacheProvider) repositories.LocationRepository {
	return &CachedLocationAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs
const (
	locationByIDTTL   = 5 * time.Minute
	locationDetailTTL = 2 * time.Minute
	locationListTTL   = 3 * time.Minute
)

const locationKeyPrefix = "location:"

func locationCacheKey(id int64) string {
	return fmt.Sprintf("location:id:%d", id)
}

func locationDetailCacheKey(id int64) string {
	return fmt.Sprintf("location:detail:%d", id)
}

func locationListCacheKey(filter repositories.LocationFilter) string {
	creator := int64(0)
	if filter.CreatedBy != nil {
		creator = *filter.CreatedBy
	}
	return fmt.Sprintf("location:list:%d:%d:%d", creator, filter.Limit, filter.Offset)
}

// Create creates a location and invalidates list caches
func (a *CachedLocationAdapter) Create(ctx context.Context, location *entities.Location) error {
	if err := a.adapter.Create(ctx, location); err != nil {
		return err
	}
	a.invalidate(ctx, locationKeyPrefix)
	return nil
}

// GetByID retrieves a location by ID with caching
func (a *CachedLocationAdapter) GetByID(ctx context.Context, id int64) (*entities.Location, error) {
	cacheKey := locationCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var location entities.Location
		if err := json.Unmarshal(cached, &location); err == nil {
			return &location, nil
		}
		log.Warn().Int64("location_id", id).Msg("failed to unmarshal cached location")
	}

	location, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(ctx, cacheKey, location, locationByIDTTL)
	return location, nil
}

// GetDetail retrieves a location with its visit history, cached briefly
// since visit mutations change it more often than the location itself.
func (a *CachedLocationAdapter) GetDetail(ctx context.Context, id int64) (*entities.LocationDetail, error) {
	cacheKey := locationDetailCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var detail entities.LocationDetail
		if err := json.Unmarshal(cached, &detail); err == nil {
			return &detail, nil
		}
		log.Warn().Int64("location_id", id).Msg("failed to unmarshal cached location detail")
	}

	detail, err := a.adapter.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(ctx, cacheKey, detail, locationDetailTTL)
	return detail, nil
}

// Update updates a location and invalidates its caches
func (a *CachedLocationAdapter) Update(ctx context.Context, location *entities.Location) error {
	if err := a.adapter.Update(ctx, location); err != nil {
		return err
	}
	a.invalidate(ctx, locationKeyPrefix)
	return nil
}

// Delete deletes a location and invalidates its caches
func (a *CachedLocationAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, locationKeyPrefix)
	return nil
}

// List retrieves location summaries with caching
func (a *CachedLocationAdapter) List(ctx context.Context, filter repositories.LocationFilter) ([]*entities.LocationSummary, error) {
	cacheKey := locationListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var summaries []*entities.LocationSummary
		if err := json.Unmarshal(cached, &summaries); err == nil {
			return summaries, nil
		}
		log.Warn().Str("cache_key", cacheKey).Msg("failed to unmarshal cached location list")
	}

	summaries, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.store(ctx, cacheKey, summaries, locationListTTL)
	return summaries, nil
}

func (a *CachedLocationAdapter) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Str("cache_key", key).Err(err).Msg("failed to marshal value for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Str("cache_key", key).Err(err).Msg("failed to store value in cache")
	}
}

func (a *CachedLocationAdapter) invalidate(ctx context.Context, prefix string) {
	if err := a.cache.DeletePrefix(ctx, prefix); err != nil {
		log.Warn().Str("prefix", prefix).Err(err).Msg("failed to invalidate cache")
	}
}
