package cart

// LineItem is one product line in a cart. Display fields are copied from
// the product at add time and never re-fetched.
type LineItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
}

// Product is the shape accepted by add. Older catalog payloads carry the
// identifier under "_id"; Key normalizes to whichever is set.
type Product struct {
	ID         string `json:"id"`
	LegacyID   string `json:"_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image"`
}

func (p Product) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.LegacyID
}

// Cart is an ordered list of line items. Insertion order is the order
// products were added. At most one line exists per distinct id.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add appends a line for p unless a line with the same id already exists.
// A duplicate add mutates nothing, not even the stored quantity.
func (c *Cart) Add(p Product) bool {
	id := p.Key()
	for _, it := range c.Items {
		if it.ID == id {
			return false
		}
	}

	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}

	c.Items = append(c.Items, LineItem{
		ID:         id,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Quantity:   qty,
		Image:      p.Image,
	})
	return true
}

// Remove drops the first line matching id. An absent id is a no-op.
func (c *Cart) Remove(id string) bool {
	for i, it := range c.Items {
		if it.ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity overwrites the quantity on every line matching id. Call sites
// clamp; no validation happens here.
func (c *Cart) SetQuantity(id string, qty int) bool {
	changed := false
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = qty
			changed = true
		}
	}
	return changed
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Count sums quantities across all lines. A line with zero quantity still
// counts once.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		q := it.Quantity
		if q == 0 {
			q = 1
		}
		n += q
	}
	return n
}

func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		q := it.Quantity
		if q == 0 {
			q = 1
		}
		total += it.PriceCents * int64(q)
	}
	return total
}
