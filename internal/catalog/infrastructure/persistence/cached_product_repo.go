package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// DefaultProductCacheTTL bounds how stale a cached product may be.
const DefaultProductCacheTTL = 5 * time.Minute

// ProductCacheKey returns the cache key of a product.
func ProductCacheKey(id uuid.UUID) string {
	return "catalog:product:" + id.String()
}

// CachedProductRepository is a read-through cache for FindByID in front of
// another domain.Repository. Cache failures are logged and never surface to
// callers.
type CachedProductRepository struct {
	inner  domain.Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedProductRepository wraps inner. A non-positive ttl selects
// DefaultProductCacheTTL.
func NewCachedProductRepository(inner domain.Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = DefaultProductCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProductRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Save writes through and evicts the cached copy. Eviction also runs when
// the write fails, since the row may have changed before the error.
func (r *CachedProductRepository) Save(ctx context.Context, product *domain.Product) error {
	err := r.inner.Save(ctx, product)
	r.invalidate(ctx, product.ID())
	return err
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Product, error) {
	key := ProductCacheKey(id)

	body, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		p, decodeErr := decodeProduct(body)
		if decodeErr == nil {
			if p.OwnerID() != ownerID {
				return nil, domain.ErrProductNotFound
			}
			return p, nil
		}
		r.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", decodeErr)
	case !errors.Is(err, ErrCacheMiss):
		r.logger.WarnContext(ctx, "product cache read failed", "key", key, "error", err)
	}

	p, err := r.inner.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(recordFromProduct(p)); err == nil {
		if err := r.cache.Set(ctx, key, body, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "product cache write failed", "key", key, "error", err)
		}
	}
	return p, nil
}

func (r *CachedProductRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error) {
	return r.inner.FindByOwner(ctx, ownerID)
}

func (r *CachedProductRepository) FindByTag(ctx context.Context, ownerID uuid.UUID, tag string) ([]*domain.Product, error) {
	return r.inner.FindByTag(ctx, ownerID, tag)
}

func (r *CachedProductRepository) FindByTitle(ctx context.Context, ownerID uuid.UUID, title domain.Title) (*domain.Product, error) {
	return r.inner.FindByTitle(ctx, ownerID, title)
}

func (r *CachedProductRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	err := r.inner.Delete(ctx, id, ownerID)
	r.invalidate(ctx, id)
	return err
}

// invalidate evicts id now and, inside a unit of work, once more after the
// commit. Until the commit other readers still load the old row and may put
// it back into the cache.
func (r *CachedProductRepository) invalidate(ctx context.Context, id uuid.UUID) {
	r.evict(ctx, id)
	database.AfterCommit(ctx, func(ctx context.Context) { r.evict(ctx, id) })
}

func (r *CachedProductRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, ProductCacheKey(id)); err != nil {
		r.logger.WarnContext(ctx, "product cache eviction failed", "product_id", id, "error", err)
	}
}

func decodeProduct(body []byte) (*domain.Product, error) {
	var rec productRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}
	return rec.toDomain()
}
