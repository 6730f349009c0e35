// Package mailer holds the order notification pipeline: the per-status
// email templates, the SMTP delivery channel, the append-only audit log,
// and the dispatcher that decides whether an order mutation is worth an
// email at all.
package mailer

import "github.com/rohithwtcrofficial/roastery-backoffice/internal/catalog"

// Email is a rendered message ready for the delivery channel.
type Email struct {
	Subject string
	HTML    string
}

// ReceivedLine is one line item as shown in the rich order-received email:
// image, variant, price and subtotal. Other statuses only list names.
type ReceivedLine struct {
	Name       string
	ImageURL   string
	ProductURL string
	Grams      int
	Quantity   int
	UnitPrice  float64
	Subtotal   float64
}

// TemplateData is the input to every template function. Not every template
// reads every field; SHIPPED is the only one with a hard requirement beyond
// the order number (its tracking id).
type TemplateData struct {
	CustomerName string
	OrderNumber  string

	// Flat names, used by every status template.
	ProductNames []string

	// Rich line items and the promotional block, RECEIVED only.
	Items    []ReceivedLine
	Featured []catalog.FeaturedProduct

	TotalAmount float64

	TrackingID        string
	TrackingURL       string
	Courier           string
	EstimatedDelivery string

	// Base for constructed tracking links when the order carries no
	// explicit tracking URL. Empty means the built-in default.
	TrackingBase string

	SupportEmail string
}

// TemplateFunc renders one status-specific email. Pure and deterministic:
// identical input produces byte-identical output.
type TemplateFunc func(d TemplateData) (Email, error)
