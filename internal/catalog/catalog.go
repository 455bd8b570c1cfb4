// Package catalog holds the read-only product catalog and the pure
// filter/backfill logic the conversation flow queries.
package catalog

import (
	"fmt"
	"log"
	"strings"
)

// MaxDisplay is the number of candidates surfaced to the user at once
const MaxDisplay = 3

// Catalog is an immutable snapshot of the enhanced product list. It is
// built once at startup and never mutated, so it needs no locking.
type Catalog struct {
	products []Product
}

// New builds the default catalog from the seed data, guaranteeing at
// least MaxDisplay products per category so the selection menu is never
// sparse in production
func New() *Catalog {
	c := NewFromProducts(seedProducts)
	c.products = padCategories(c.products)
	log.Printf("✅ Catalog loaded with %d products", len(c.products))
	return c
}

// NewFromProducts builds a catalog from the given products, enhancing
// each entry
func NewFromProducts(products []Product) *Catalog {
	snapshot := make([]Product, len(products))
	copy(snapshot, products)
	for i := range snapshot {
		enhance(&snapshot[i])
	}
	return &Catalog{products: snapshot}
}

// padCategories guarantees a minimum of MaxDisplay products per category so
// the selection menu is never sparse in production
func padCategories(products []Product) []Product {
	for _, cat := range []Category{CategorySports, CategoryCasual, CategoryFormal} {
		count := 0
		for _, p := range products {
			if p.Category == cat {
				count++
			}
		}
		for i := 1; count < MaxDisplay; i++ {
			basePrice := 40 + float64(i*5)
			switch cat {
			case CategoryFormal:
				basePrice = 60 + float64(i*10)
			case CategorySports:
				basePrice = 50 + float64(i*10)
			}
			p := Product{
				ID:          len(products) + 1,
				Name:        fmt.Sprintf("%s Premium %d", titleCase(cat), i),
				Category:    cat,
				Price:       basePrice,
				Sizes:       []int{6, 7, 8, 9, 10},
				Description: fmt.Sprintf("High-quality %s shoes for everyday comfort", lowerCase(cat)),
			}
			enhance(&p)
			products = append(products, p)
			count++
			log.Printf("🔄 Added filler product for %s category: %s", cat, p.Name)
		}
	}
	return products
}

// Products returns the full snapshot in catalog order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter returns the products matching all given predicates, preserving
// catalog order. A size of 0 means any size.
func (c *Catalog) Filter(category Category, priceMin, priceMax float64, size int) []Product {
	var matched []Product
	for _, p := range c.products {
		if p.Category != category {
			continue
		}
		if p.Price < priceMin || p.Price > priceMax {
			continue
		}
		if size != 0 && !p.HasSize(size) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// Backfill pads an under-filled match list with additional same-category
// products not already present, up to cap. It only runs when there are
// fewer than cap exact matches and it never removes or reorders matches
// already found. Cross-category spillover is deliberately not performed.
func (c *Catalog) Backfill(matches []Product, category Category, limit int) []Product {
	if len(matches) >= limit {
		return matches
	}
	have := make(map[int]bool, len(matches))
	for _, p := range matches {
		have[p.ID] = true
	}
	for _, p := range c.products {
		if len(matches) >= limit {
			break
		}
		if p.Category != category || have[p.ID] {
			continue
		}
		matches = append(matches, p)
		have[p.ID] = true
	}
	return matches
}

// TruncateForDisplay caps the list at max entries, returning the shown
// slice and the total number found before truncation
func TruncateForDisplay(products []Product, limit int) ([]Product, int) {
	total := len(products)
	if total > limit {
		return products[:limit], total
	}
	return products, total
}

func titleCase(c Category) string {
	s := string(c)
	if len(s) < 2 {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func lowerCase(c Category) string {
	return strings.ToLower(string(c))
}
