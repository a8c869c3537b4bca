package catalog

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listQuery(t *testing.T, raw string) Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return ParseQuery(v)
}

func ids(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestMemStore_ListFiltersCategoryAndPublished(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	page, err := s.List(ctx, listQuery(t, "published=true"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Pagination.TotalCount, "one seeded product is unpublished")

	page, err = s.List(ctx, listQuery(t, "category=feeders"))
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p_feeder01", page.Products[0].ID)
}

func TestMemStore_ListPriceRange(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	page, err := s.List(ctx, listQuery(t, "min_price=400000&max_price=2000000"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p_feeder01", "p_drinker01"}, ids(page.Products))
}

func TestMemStore_ListInStock(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	page, err := s.List(ctx, listQuery(t, "in_stock=false"))
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p_lamp01", page.Products[0].ID)
}

func TestMemStore_ListSortStable(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	page, err := s.List(ctx, listQuery(t, "sort=price&order=asc"))
	require.NoError(t, err)
	got := ids(page.Products)
	assert.Equal(t, []string{
		"p_lamp01", "p_drinker01", "p_feeder01",
		"p_incub01", "p_cage01", "p_grinder01",
	}, got)

	page, err = s.List(ctx, listQuery(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "p_grinder01", page.Products[0].ID, "default sort is newest first")
}

func TestMemStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	page, err := s.List(ctx, listQuery(t, "sort=name&order=asc&page=1&page_size=4"))
	require.NoError(t, err)
	assert.Len(t, page.Products, 4)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(6), page.Pagination.TotalCount)

	page, err = s.List(ctx, listQuery(t, "sort=name&order=asc&page=2&page_size=4"))
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	// past the end is an empty page, not an error
	page, err = s.List(ctx, listQuery(t, "page=50&page_size=4"))
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, int64(6), page.Pagination.TotalCount)
}

func TestMemStore_GetAndIncrementViews(t *testing.T) {
	ctx := context.Background()
	s := NewSeededMemStore()

	p, ok, err := s.GetByID(ctx, "p_incub01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(0), p.Views)

	bySlug, ok, err := s.GetBySlug(ctx, "egg-incubator-128")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.ID, bySlug.ID)

	_, ok, err = s.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.IncrementViews(ctx, "p_incub01"))
	require.NoError(t, s.IncrementViews(ctx, "p_incub01"))

	p, _, _ = s.GetByID(ctx, "p_incub01")
	assert.Equal(t, int64(2), p.Views)
}

func TestMemStore_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := Product{ID: "p_new", Slug: "new", Name: "New", PriceCents: 100, Published: true}
	require.NoError(t, s.Create(ctx, p))

	p.Name = "Renamed"
	ok, err := s.Update(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, _ := s.GetByID(ctx, "p_new")
	assert.Equal(t, "Renamed", got.Name)

	ok, err = s.Update(ctx, Product{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, "p_new")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Delete(ctx, "p_new")
	require.NoError(t, err)
	assert.False(t, ok)
}
