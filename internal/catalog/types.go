package catalog

import "time"

// Variant is the optional per-grams sub-record carrying a size-specific
// outbound link for emails.
type Variant struct {
	Grams       int    `dynamodbav:"grams"`
	ProductLink string `dynamodbav:"product_link,omitempty"`
}

// Product represents the item stored in the products table. Products are
// never hard-deleted; Active=false means deactivated and email enrichment
// degrades to placeholders for them.
type Product struct {
	ProductID       string             `dynamodbav:"product_id"` // PK
	Name            string             `dynamodbav:"name"`
	Category        string             `dynamodbav:"category,omitempty"`
	Roast           string             `dynamodbav:"roast,omitempty"`
	ImageURL        string             `dynamodbav:"image_url,omitempty"`
	AvailableGrams  []int              `dynamodbav:"available_grams,omitempty"`
	PricePerVariant map[string]float64 `dynamodbav:"price_per_variant,omitempty"` // key: grams as string
	Variants        map[string]Variant `dynamodbav:"variants,omitempty"`          // key: grams as string
	Active          bool               `dynamodbav:"active"`
	CreatedAt       time.Time          `dynamodbav:"created_at"`
	UpdatedAt       time.Time          `dynamodbav:"updated_at"`
}

// FeaturedProduct is one entry in the promotional list shown in the
// order-received email.
type FeaturedProduct struct {
	Name     string  `dynamodbav:"name" json:"name"`
	Price    float64 `dynamodbav:"price" json:"price"`
	ImageURL string  `dynamodbav:"image_url" json:"image_url"`
	Link     string  `dynamodbav:"link" json:"link"`
}

// FeaturedConfig is the single configuration item in the featured-products
// table. When Active is false the promotional block is omitted entirely.
type FeaturedConfig struct {
	ConfigID string            `dynamodbav:"config_id"` // PK, always "featured"
	Active   bool              `dynamodbav:"active"`
	Products []FeaturedProduct `dynamodbav:"products,omitempty"`
}

// featuredConfigID is the fixed key of the single config item.
const featuredConfigID = "featured"
