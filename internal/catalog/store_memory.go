package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Product
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}}
}

// NewSeededMemStore is the dev-mode store, preloaded with a small poultry
// equipment catalog.
func NewSeededMemStore() *MemStore {
	s := NewMemStore()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	seed := []Product{
		{ID: "p_feeder01", Slug: "automatic-chick-feeder", Name: "Automatic Chick Feeder", Category: "feeders", Brand: "AgriPro", PriceCents: 1850000, Stock: 24, Published: true, Featured: true},
		{ID: "p_drinker01", Slug: "bell-drinker-5l", Name: "Bell Drinker 5L", Category: "drinkers", Brand: "AgriPro", PriceCents: 450000, Stock: 120, Published: true},
		{ID: "p_incub01", Slug: "egg-incubator-128", Name: "Egg Incubator 128", Category: "incubators", Brand: "HatchWell", PriceCents: 9500000, SalePriceCents: 8700000, Stock: 6, Published: true, OnSale: true},
		{ID: "p_cage01", Slug: "layer-cage-3-tier", Name: "Layer Cage 3-Tier", Category: "cages", Subcategory: "layer", Brand: "FarmSteel", PriceCents: 14500000, Stock: 3, Published: true},
		{ID: "p_lamp01", Slug: "poultry-heat-lamp", Name: "Poultry Heat Lamp", Category: "brooding", Brand: "HatchWell", PriceCents: 320000, Stock: 0, Published: true},
		{ID: "p_grinder01", Slug: "feed-grinder-2hp", Name: "Feed Grinder 2HP", Category: "feed-processing", Brand: "AgriPro", PriceCents: 22000000, Stock: 2, Published: false},
	}
	for i, p := range seed {
		p.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		s.m[p.ID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, q Query) (Page, error) {
	s.mu.RLock()
	matched := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		if q.matches(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sortProducts(matched, q)

	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return Page{
		Products:   matched[start:end],
		Pagination: paginationFor(q, total),
	}, nil
}

func sortProducts(ps []Product, q Query) {
	less := func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch q.SortBy {
	case "price":
		less = func(a, b Product) bool { return a.PriceCents < b.PriceCents }
	case "name":
		less = func(a, b Product) bool { return a.Name < b.Name }
	case "views":
		less = func(a, b Product) bool { return a.Views < b.Views }
	}

	sort.SliceStable(ps, func(i, j int) bool {
		if q.SortDesc {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}

func (s *MemStore) GetByID(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) GetBySlug(ctx context.Context, slug string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.m {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *MemStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.m[id]; ok {
		p.Views++
		s.m[id] = p
	}
	return nil
}

func (s *MemStore) Create(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[p.ID] = p
	return nil
}

func (s *MemStore) Update(ctx context.Context, p Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[p.ID]; !ok {
		return false, nil
	}
	s.m[p.ID] = p
	return true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	return true, nil
}
