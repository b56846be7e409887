package model

// Category is the closed set of catalogue sections.
type Category string

const (
	CategoryCamera Category = "Camera"
	CategoryGame   Category = "Game"
	CategoryWatch  Category = "Watch"

	// CategoryAll selects every category when filtering. It is never stored on a Product.
	CategoryAll Category = "All"
)

// Categories lists the storable categories in display order. The first entry is the default.
var Categories = []Category{CategoryCamera, CategoryGame, CategoryWatch}

// Valid reports whether c is one of the storable categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Condition describes the physical state of a listed item.
type Condition string

const (
	ConditionMint     Condition = "Mint"
	ConditionNearMint Condition = "Near Mint"
	ConditionUsed     Condition = "Used"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionMint, ConditionNearMint, ConditionUsed:
		return true
	}
	return false
}

// YenPerDollar is the fixed exchange rate used to derive USD prices.
const YenPerDollar = 150

// USDFromYen converts a yen price to whole dollars, rounding down.
func USDFromYen(yen int) int {
	return yen / YenPerDollar
}

// Product represents a curated vintage listing in the catalogue.
type Product struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	PriceYen      int       `json:"priceYen" yaml:"price_yen"`
	PriceUSD      int       `json:"priceUsd" yaml:"-"`
	ImageURL      string    `json:"imageUrl" yaml:"image_url"`
	AffiliateLink string    `json:"affiliateLink" yaml:"affiliate_link"`
	Category      Category  `json:"category" yaml:"category"`
	Condition     Condition `json:"condition" yaml:"condition"`
	IsFeatured    bool      `json:"isFeatured" yaml:"is_featured"`
}

// ProductDetail is the response payload for a single product page.
type ProductDetail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}
