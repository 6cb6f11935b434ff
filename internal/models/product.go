// internal/models/product.go
package models

type ProductVariant struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku,omitempty"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	UnitPrice  MoneyVND          `json:"unitPrice"`
	Stock      int               `json:"stock"`
}

// Product embeds its variants: a single record covers the detail view
// (price, options) without a second lookup.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURLs   []string         `json:"imageUrls"`
	Variants    []ProductVariant `json:"variants"`
	Category    string           `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	SellerID    string           `json:"sellerId,omitempty"`
	AvgRating   float64          `json:"avgRating"`
	ReviewCount int              `json:"reviewCount"`
	Status      ContentStatus    `json:"status"`
	Timestamps
}

// MinPrice is the display price: the cheapest variant.
func (p *Product) MinPrice() MoneyVND {
	if len(p.Variants) == 0 {
		return 0
	}
	min := p.Variants[0].UnitPrice
	for _, v := range p.Variants[1:] {
		if v.UnitPrice < min {
			min = v.UnitPrice
		}
	}
	return min
}

func (p *Product) Visible() bool {
	return p.Status.Normalized() == ContentStatusActive
}

type Review struct {
	ID        string        `json:"id"`
	ProductID string        `json:"productId"`
	UserID    string        `json:"userId"`
	Rating    int           `json:"rating"`
	Title     string        `json:"title,omitempty"`
	Body      string        `json:"body,omitempty"`
	Status    ContentStatus `json:"status"`
	Timestamps
}

func (r *Review) Visible() bool {
	return r.Status.Normalized() == ContentStatusActive
}
