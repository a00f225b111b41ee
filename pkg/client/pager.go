package client

import (
	"context"
	"fmt"
	"sync"
)

// FetchPage loads one page of results, e.g. Client.Feed or Client.Music
// wrapped in a closure.
type FetchPage[T any] func(ctx context.Context, page, limit int) ([]T, error)

// Pager walks a paginated endpoint page by page for infinite-scroll
// style consumption. A page shorter than the page size marks the end.
type Pager[T any] struct {
	fetch FetchPage[T]
	cache *ListCache
	name  string
	limit int

	mu      sync.Mutex
	page    int
	hasMore bool
}

// NewPager creates a pager over fetch with the given page size. cache
// may be nil to disable caching.
func NewPager[T any](name string, fetch FetchPage[T], limit int, cache *ListCache) *Pager[T] {
	if limit < 1 {
		limit = 10
	}
	return &Pager[T]{
		fetch:   fetch,
		cache:   cache,
		name:    name,
		limit:   limit,
		page:    1,
		hasMore: true,
	}
}

// Next fetches the next page and advances the cursor. After the end is
// reached it returns an empty page without calling fetch.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil, nil
	}
	page := p.page
	p.mu.Unlock()

	key := fmt.Sprintf("%s:%d:%d", p.name, page, p.limit)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			if items, ok := cached.([]T); ok {
				p.advance(len(items))
				return items, nil
			}
		}
	}

	items, err := p.fetch(ctx, page, p.limit)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Set(key, items)
	}
	p.advance(len(items))
	return items, nil
}

func (p *Pager[T]) advance(got int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page++
	if got < p.limit {
		p.hasMore = false
	}
}

// HasMore reports whether another page may exist.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Reset rewinds the pager to the first page.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = 1
	p.hasMore = true
}
