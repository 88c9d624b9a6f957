// Package cart holds the storefront cart: an ordered list of product slugs
// and quantities kept on the client.
package cart

// Item is one cart line. Slugs are unique within a cart.
type Item struct {
	ProductSlug string `json:"productSlug"`
	Quantity    int    `json:"quantity"`
}

// Cart is the ordered list of lines.
type Cart []Item

// Add returns the cart with slug's quantity increased by one, appending a
// new line when the slug is not yet present. The receiver is not modified.
func (c Cart) Add(slug string) Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	for i := range next {
		if next[i].ProductSlug == slug {
			next[i].Quantity++
			return next
		}
	}
	return append(next, Item{ProductSlug: slug, Quantity: 1})
}

// Remove returns the cart without slug. When slug is absent the original
// cart is returned as is.
func (c Cart) Remove(slug string) Cart {
	if !c.Contains(slug) {
		return c
	}
	next := make(Cart, 0, len(c)-1)
	for _, item := range c {
		if item.ProductSlug != slug {
			next = append(next, item)
		}
	}
	return next
}

func (c Cart) Contains(slug string) bool {
	for _, item := range c {
		if item.ProductSlug == slug {
			return true
		}
	}
	return false
}

// Slugs lists the product slugs in cart order.
func (c Cart) Slugs() []string {
	slugs := make([]string, 0, len(c))
	for _, item := range c {
		slugs = append(slugs, item.ProductSlug)
	}
	return slugs
}

// Count is the total number of units.
func (c Cart) Count() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}
