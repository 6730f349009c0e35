package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/orders"
)

// ProductReader is the single-product lookup the enricher needs. Satisfied
// by *Store; tests use an in-memory fake.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

// EnrichedProduct carries the display fields embedded per line item in the
// order-received email.
type EnrichedProduct struct {
	ImageURL   string
	ProductURL string
}

// Enricher resolves current product images and links for email rendering.
type Enricher struct {
	products       ProductReader
	placeholderURL string
	catalogURL     string
}

// NewEnricher builds an Enricher. placeholderURL and catalogURL are the
// fallbacks used whenever a product or variant cannot be resolved.
func NewEnricher(products ProductReader, placeholderURL, catalogURL string) *Enricher {
	return &Enricher{
		products:       products,
		placeholderURL: placeholderURL,
		catalogURL:     catalogURL,
	}
}

// Enrich resolves the current display image and outbound link for every
// distinct product id referenced by items. The result always has exactly one
// entry per distinct id: a missing product, a deactivated product, a missing
// variant, or a store error all degrade to the placeholder image and the
// generic catalog link. Lookups for distinct ids run concurrently; there is
// no ordering dependency between them.
func (e *Enricher) Enrich(ctx context.Context, items []orders.LineItem) map[string]EnrichedProduct {
	// first variant grams seen per product, for variant-specific links
	grams := make(map[string]int)
	var ids []string
	for _, it := range items {
		if _, seen := grams[it.ProductID]; !seen {
			grams[it.ProductID] = it.Grams
			ids = append(ids, it.ProductID)
		}
	}

	result := make(map[string]EnrichedProduct, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			entry := e.resolve(ctx, id, grams[id])
			mu.Lock()
			result[id] = entry
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return result
}

func (e *Enricher) resolve(ctx context.Context, productID string, grams int) EnrichedProduct {
	entry := EnrichedProduct{
		ImageURL:   e.placeholderURL,
		ProductURL: e.catalogURL,
	}

	p, err := e.products.GetProduct(ctx, productID)
	if err != nil || p == nil || !p.Active {
		return entry
	}

	if p.ImageURL != "" {
		entry.ImageURL = p.ImageURL
	}
	if v, ok := p.Variants[strconv.Itoa(grams)]; ok && v.ProductLink != "" {
		entry.ProductURL = v.ProductLink
	}
	return entry
}
