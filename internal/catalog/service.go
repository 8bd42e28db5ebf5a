package catalog

import (
	"context"
	"errors"

	"github.com/noah-isme/backend-kelas/internal/cache"
)

// Querier captures the persistence methods the catalog service needs.
type Querier interface {
	List(ctx context.Context, kind string) ([]Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
}

// Service orchestrates tenant-scoped catalog reads with a read-through cache.
type Service struct {
	Q     Querier
	Cache *cache.Cache
}

// List returns the tenant's purchasable items, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind string) ([]Item, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("catalog service not configured")
	}
	if kind != "" {
		if _, err := ParseKind(kind); err != nil {
			return nil, err
		}
	}
	key := cache.KeyItems(ctx, kind)
	var cached []Item
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	items, err := s.Q.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, key, items)
	return items, nil
}

// Get returns a single item by id.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	if s == nil || s.Q == nil {
		return Item{}, errors.New("catalog service not configured")
	}
	key := cache.KeyItem(ctx, id)
	var cached Item
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	item, err := s.Q.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	_ = s.Cache.SetJSON(ctx, key, item)
	return item, nil
}
