package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Provider = (*CachedProvider)(nil)

// CachedProvider memoizes lookups, including misses, for ttl.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// a nil match records a known miss
type searchEntry struct {
	match *types.PlaceMatch
}

func (p *CachedProvider) SearchPlace(ctx context.Context, query, destination string) (*types.PlaceMatch, error) {
	key := "search:" + strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToLower(strings.TrimSpace(destination))
	if v, ok := p.cache.Get(key); ok {
		entry := v.(searchEntry)
		if entry.match == nil {
			return nil, ErrNoMatch
		}
		m := *entry.match
		return &m, nil
	}

	match, err := p.next.SearchPlace(ctx, query, destination)
	switch {
	case errors.Is(err, ErrNoMatch):
		p.cache.SetDefault(key, searchEntry{})
		return nil, err
	case err != nil:
		return nil, err
	}

	stored := *match
	p.cache.SetDefault(key, searchEntry{match: &stored})
	return match, nil
}

func (p *CachedProvider) GetPhotos(ctx context.Context, placeID string, limit int) ([]string, error) {
	key := fmt.Sprintf("photos:%s:%d", placeID, limit)
	if v, ok := p.cache.Get(key); ok {
		return append([]string(nil), v.([]string)...), nil
	}

	photos, err := p.next.GetPhotos(ctx, placeID, limit)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, append([]string(nil), photos...))
	return photos, nil
}

// ItemCount reports how many lookups are cached.
func (p *CachedProvider) ItemCount() int {
	return p.cache.ItemCount()
}
