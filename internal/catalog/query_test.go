package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return ParseQuery(v)
}

func TestParseQuery_Defaults(t *testing.T) {
	q := parse(t, "")

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.PageSize)
	assert.Equal(t, "created_at", q.SortBy)
	assert.True(t, q.SortDesc, "newest first by default")
	assert.Nil(t, q.Published)
	assert.Nil(t, q.MinPriceCents)
}

func TestParseQuery_Filters(t *testing.T) {
	q := parse(t, "category=feeders&brand=AgriPro&published=true&in_stock=1&min_price=100&max_price=5000")

	assert.Equal(t, "feeders", q.Category)
	assert.Equal(t, "AgriPro", q.Brand)
	require.NotNil(t, q.Published)
	assert.True(t, *q.Published)
	require.NotNil(t, q.InStock)
	assert.True(t, *q.InStock)
	require.NotNil(t, q.MinPriceCents)
	assert.Equal(t, int64(100), *q.MinPriceCents)
	require.NotNil(t, q.MaxPriceCents)
	assert.Equal(t, int64(5000), *q.MaxPriceCents)
}

func TestParseQuery_SortWhitelist(t *testing.T) {
	q := parse(t, "sort=price&order=asc")
	assert.Equal(t, "price", q.SortBy)
	assert.False(t, q.SortDesc)

	q = parse(t, "sort=price&order=desc")
	assert.True(t, q.SortDesc)

	// unknown sort field falls back to newest-first
	q = parse(t, "sort=__proto__")
	assert.Equal(t, "created_at", q.SortBy)
	assert.True(t, q.SortDesc)
}

func TestParseQuery_ForgivingNumbers(t *testing.T) {
	q := parse(t, "page=banana&page_size=-3&min_price=notmoney&max_price=-5")

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.PageSize)
	assert.Nil(t, q.MinPriceCents)
	assert.Nil(t, q.MaxPriceCents, "negative prices are ignored")
}

func TestParseQuery_PageSizeCap(t *testing.T) {
	q := parse(t, "page_size=5000")
	assert.Equal(t, maxPageSize, q.PageSize)
}

func TestParseQuery_BadBoolIgnored(t *testing.T) {
	q := parse(t, "published=yes")
	assert.Nil(t, q.Published)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "egg-incubator-128", slugify("  Egg Incubator 128! "))
	assert.Equal(t, "bell-drinker-5l", slugify("Bell Drinker 5L"))
	assert.Equal(t, "", slugify("!!!"))
}
