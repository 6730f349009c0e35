// Package status defines the canonical order status values and the
// normalizer that maps legacy spellings onto them.
package status

import "strings"

// Canonical order statuses, in rough lifecycle order. Progression is not
// enforced anywhere: operators may set any status at any time and the
// notification pipeline only ever reacts to change.
const (
	Received  = "RECEIVED"
	Accepted  = "ACCEPTED"
	Packed    = "PACKED"
	Shipped   = "SHIPPED"
	Delivered = "DELIVERED"
	Cancelled = "CANCELLED"
)

// aliases maps every recognized spelling (already upper-cased) to its
// canonical value. Long ORDER_-prefixed forms exist in documents written by
// an earlier version of the dashboard.
var aliases = map[string]string{
	"RECEIVED":        Received,
	"ORDER_RECEIVED":  Received,
	"ACCEPTED":        Accepted,
	"ORDER_ACCEPTED":  Accepted,
	"PACKED":          Packed,
	"ORDER_PACKED":    Packed,
	"SHIPPED":         Shipped,
	"ORDER_SHIPPED":   Shipped,
	"DELIVERED":       Delivered,
	"ORDER_DELIVERED": Delivered,
	"CANCELLED":       Cancelled,
	"ORDER_CANCELLED": Cancelled,
	"CANCELED":        Cancelled,
	"ORDER_CANCELED":  Cancelled,
}

// Normalize maps a free-form status string to its canonical value.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unrecognized non-empty strings pass through upper-cased rather than
// erroring, so documents written by newer or older schema versions flow
// through the pipeline as unknown statuses instead of breaking it.
// Empty input yields "".
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// IsCanonical reports whether s is one of the six canonical values.
func IsCanonical(s string) bool {
	switch s {
	case Received, Accepted, Packed, Shipped, Delivered, Cancelled:
		return true
	}
	return false
}
