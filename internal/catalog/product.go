package catalog

import (
	"net/url"
	"strconv"
	"time"
)

type Product struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Slug           string    `json:"slug" bson:"slug"`
	Name           string    `json:"name" bson:"name"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	Category       string    `json:"category" bson:"category"`
	Subcategory    string    `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Brand          string    `json:"brand,omitempty" bson:"brand,omitempty"`
	PriceCents     int64     `json:"price_cents" bson:"price_cents"`
	SalePriceCents int64     `json:"sale_price_cents,omitempty" bson:"sale_price_cents,omitempty"`
	Stock          int       `json:"stock" bson:"stock"`
	Published      bool      `json:"published" bson:"published"`
	Featured       bool      `json:"featured" bson:"featured"`
	OnSale         bool      `json:"on_sale" bson:"on_sale"`
	Images         []string  `json:"images,omitempty" bson:"images,omitempty"`
	Views          int64     `json:"views" bson:"views"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// sortFields whitelists sortable fields; the value is the stored field name.
var sortFields = map[string]string{
	"price":      "price_cents",
	"name":       "name",
	"views":      "views",
	"created_at": "created_at",
}

// Query is the parsed filter/sort/pagination request. Nil pointer fields
// mean "not filtered".
type Query struct {
	Category    string
	Subcategory string
	Brand       string

	Published *bool
	Featured  *bool
	OnSale    *bool
	InStock   *bool

	MinPriceCents *int64
	MaxPriceCents *int64

	SortBy   string
	SortDesc bool

	Page     int
	PageSize int
}

// ParseQuery reads URL query parameters with forgiving defaults: bad or
// missing numbers fall back rather than erroring, matching the storefront's
// tolerance for hand-edited URLs.
func ParseQuery(v url.Values) Query {
	q := Query{
		Category:    v.Get("category"),
		Subcategory: v.Get("subcategory"),
		Brand:       v.Get("brand"),

		Published: parseBool(v.Get("published")),
		Featured:  parseBool(v.Get("featured")),
		OnSale:    parseBool(v.Get("on_sale")),
		InStock:   parseBool(v.Get("in_stock")),

		MinPriceCents: parseInt64(v.Get("min_price")),
		MaxPriceCents: parseInt64(v.Get("max_price")),

		Page:     1,
		PageSize: defaultPageSize,
	}

	if _, ok := sortFields[v.Get("sort")]; ok {
		q.SortBy = v.Get("sort")
	} else {
		q.SortBy = "created_at"
		q.SortDesc = true
	}
	if v.Get("order") == "desc" {
		q.SortDesc = true
	} else if v.Get("order") == "asc" {
		q.SortDesc = false
	}

	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if ps, err := strconv.Atoi(v.Get("page_size")); err == nil && ps > 0 {
		q.PageSize = ps
		if q.PageSize > maxPageSize {
			q.PageSize = maxPageSize
		}
	}

	return q
}

func parseBool(s string) *bool {
	switch s {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

func parseInt64(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

type Page struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

func paginationFor(q Query, total int64) Pagination {
	pages := int(total) / q.PageSize
	if int(total)%q.PageSize != 0 {
		pages++
	}
	return Pagination{
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: pages,
		TotalCount: total,
	}
}

// matches reports whether p passes every set filter in q. Shared by the
// memory store; the mongo store builds the equivalent filter document.
func (q Query) matches(p Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Subcategory != "" && p.Subcategory != q.Subcategory {
		return false
	}
	if q.Brand != "" && p.Brand != q.Brand {
		return false
	}
	if q.Published != nil && p.Published != *q.Published {
		return false
	}
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	if q.OnSale != nil && p.OnSale != *q.OnSale {
		return false
	}
	if q.InStock != nil && (p.Stock > 0) != *q.InStock {
		return false
	}
	if q.MinPriceCents != nil && p.PriceCents < *q.MinPriceCents {
		return false
	}
	if q.MaxPriceCents != nil && p.PriceCents > *q.MaxPriceCents {
		return false
	}
	return true
}
