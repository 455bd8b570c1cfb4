package catalog

import (
	"fmt"
	"strings"
)

// Category is the shoe category a product belongs to
type Category string

const (
	CategorySports Category = "SPORTS"
	CategoryCasual Category = "CASUAL"
	CategoryFormal Category = "FORMAL"
)

// DisplayName returns the customer-facing category name
func (c Category) DisplayName() string {
	switch c {
	case CategorySports:
		return "Sports Shoes"
	case CategoryCasual:
		return "Casual Shoes"
	case CategoryFormal:
		return "Formal Shoes"
	}
	return string(c)
}

// Emoji returns the emoji used in menus for this category
func (c Category) Emoji() string {
	switch c {
	case CategorySports:
		return "🏃"
	case CategoryCasual:
		return "👟"
	case CategoryFormal:
		return "👔"
	}
	return "👟"
}

// Product is a single catalog entry. The catalog is enhanced once at load
// time, after which products are read-only.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Sizes       []int    `json:"sizes"`
	Description string   `json:"description"`
	Images      []string `json:"images"`

	// Derived at load time by Enhance
	Colors        []string `json:"colors"`
	Features      []string `json:"features"`
	Rating        float64  `json:"rating"`
	Discount      int      `json:"discount"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	InStock       bool     `json:"in_stock"`
	DeliveryDays  int      `json:"delivery_days"`
	Material      string   `json:"material"`
	Warranty      string   `json:"warranty"`
}

// Code returns the category-prefixed display code, e.g. SAR-SPO-001
func (p *Product) Code() string {
	return fmt.Sprintf("SAR-%s-%03d", string(p.Category)[:3], p.ID)
}

// HasSize reports whether the product is available in the given size
func (p *Product) HasSize(size int) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// FallbackImage is used whenever a product image URL is missing or not
// publicly reachable (WhatsApp fetches images itself and cannot see
// localhost)
const FallbackImage = "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=400&auto=format&fit=crop"

var categoryImages = map[Category][]string{
	CategorySports: {
		"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1600185365483-26d7a4cc7519?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1605348532760-6753d2c43329?w=400&auto=format&fit=crop",
	},
	CategoryCasual: {
		"https://images.unsplash.com/photo-1606107557195-0e29a4b5b4aa?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1605348532760-6753d2c43329?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1608231387042-66d1773070a5?w=400&auto=format&fit=crop",
	},
	CategoryFormal: {
		"https://images.unsplash.com/photo-1595341888016-a392ef81b7de?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1560769624-7d7a2a6b0d4c?w=400&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1543163521-1bf539c55dd2?w=400&auto=format&fit=crop",
	},
}

var categoryColors = map[Category][]string{
	CategorySports: {"Blue", "Red", "Black", "White", "Gray"},
	CategoryCasual: {"Brown", "Beige", "Black", "White", "Navy"},
	CategoryFormal: {"Black", "Brown", "Oxblood", "Tan", "Charcoal"},
}

var categoryFeatures = map[Category][]string{
	CategorySports: {"Lightweight", "Breathable", "Shock Absorption", "Flexible"},
	CategoryCasual: {"Comfortable", "Stylish", "Versatile", "Durable"},
	CategoryFormal: {"Elegant", "Premium Leather", "Polished Finish", "Classic Design"},
}

// enhance fills in the derived fields of a product in place
func enhance(p *Product) {
	// Every product carries exactly three image URLs
	if len(p.Images) > 3 {
		p.Images = p.Images[:3]
	}
	if len(p.Images) == 0 {
		if imgs, ok := categoryImages[p.Category]; ok {
			p.Images = append([]string{}, imgs...)
		} else {
			p.Images = []string{FallbackImage}
		}
	}
	for len(p.Images) < 3 {
		p.Images = append(p.Images, p.Images[0])
	}

	p.Rating = 4.0
	switch {
	case strings.Contains(p.Name, "Elite"), strings.Contains(p.Name, "Premium"):
		p.Rating = 4.8
	case strings.Contains(p.Name, "Pro"):
		p.Rating = 4.5
	case strings.Contains(p.Name, "Basic"):
		p.Rating = 4.2
	}

	if colors, ok := categoryColors[p.Category]; ok {
		p.Colors = colors
	} else {
		p.Colors = []string{"Black", "White", "Gray"}
	}
	if features, ok := categoryFeatures[p.Category]; ok {
		p.Features = features
	} else {
		p.Features = []string{"Comfortable", "Durable", "Stylish"}
	}

	switch {
	case p.Price > 50:
		p.Discount = 10
	case p.Price > 30:
		p.Discount = 5
	}
	if p.Discount > 0 {
		p.OriginalPrice = p.Price / (1 - float64(p.Discount)/100)
	}

	p.InStock = true
	if p.Category == CategoryFormal {
		p.DeliveryDays = 5
		p.Material = "Genuine Leather"
		p.Warranty = "1 Year"
	} else {
		p.DeliveryDays = 3
		p.Warranty = "6 Months"
		if p.Category == CategorySports {
			p.Material = "Breathable Mesh"
		} else {
			p.Material = "Synthetic Fabric"
		}
	}
}
