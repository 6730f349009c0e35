package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/catalog"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/customers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/logging"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/orders"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/status"
)

// OrderReader is the slice of the orders store the dispatcher needs.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	MarkNotified(ctx context.Context, orderID, notifiedStatus string) error
}

// CustomerReader resolves the owning customer for an order.
type CustomerReader interface {
	Get(ctx context.Context, customerID string) (*customers.Customer, error)
}

// Enricher resolves current product images and links, RECEIVED emails only.
type Enricher interface {
	Enrich(ctx context.Context, items []orders.LineItem) map[string]catalog.EnrichedProduct
}

// FeaturedReader fetches the promotional list, RECEIVED emails only.
type FeaturedReader interface {
	GetFeatured(ctx context.Context) ([]catalog.FeaturedProduct, error)
}

// AuditRecorder appends one record per dispatch attempt.
type AuditRecorder interface {
	Record(ctx context.Context, orderID, kind, recipient, outcome, errDetail string) error
}

// OutcomeRecorder counts dispatch outcomes. Optional; may be nil-backed.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, kind string, success bool) error
}

// Dispatcher is the sole decision point for whether an order mutation
// produces an email, and which one. Every failure mode inside a dispatch is
// caught, logged and absorbed: this pipeline is a side effect of the order
// mutation, never part of its transaction.
type Dispatcher struct {
	Orders       OrderReader
	Customers    CustomerReader
	Enrich       Enricher
	Featured     FeaturedReader
	Channel      Sender
	Audit        AuditRecorder
	Metrics      OutcomeRecorder
	TrackingBase string
	SupportEmail string
	Log          logging.Logger
}

// HandleEvent processes one order mutation event. The returned error is
// always nil for business outcomes (no recipient, unknown status, send
// failure); only the inability to read the order document itself is
// surfaced, so the trigger platform redelivers and the idempotency guard
// keeps the redelivery safe.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev aws.OrderChangeEvent) error {
	order, err := d.Orders.Get(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", ev.OrderID, err)
	}
	if order == nil {
		d.Log.Warnw("order vanished before dispatch", "order_id", ev.OrderID)
		return nil
	}

	var afterCanonical string
	switch ev.EventType {
	case aws.EventOrderCreated:
		// Creation always takes the RECEIVED path; there is no prior
		// status to compare against. A blank status on the fresh document
		// means the same thing.
		afterCanonical = status.Received
	default:
		beforeCanonical := status.Normalize(ev.BeforeStatus)
		afterCanonical = status.Normalize(order.Status)

		// Guard 1: unrelated field edits (tracking-only updates and the
		// like) do not change the canonical status and send nothing.
		if beforeCanonical == afterCanonical {
			d.Log.Debugw("status unchanged, skipping",
				"order_id", order.OrderID, "status", afterCanonical)
			return nil
		}
	}

	// Guard 2: the durable de-duplication check. Triggers re-fire and
	// messages get redelivered; the marker on the document is what makes
	// that safe.
	if status.Normalize(order.LastNotifiedStatus) == afterCanonical {
		d.Log.Debugw("already notified for this status, skipping",
			"order_id", order.OrderID, "status", afterCanonical)
		return nil
	}

	render, ok := ForStatus(afterCanonical)
	if !ok {
		// Unknown statuses are tolerated schema drift, not errors.
		d.Log.Infow("no template for status, skipping",
			"order_id", order.OrderID, "status", afterCanonical)
		return nil
	}

	customer, err := d.Customers.Get(ctx, order.CustomerID)
	if err != nil {
		d.Log.Errorw("customer lookup failed, skipping dispatch",
			"order_id", order.OrderID, "customer_id", order.CustomerID, "error", err)
		return nil
	}
	if customer == nil || customer.Email == "" {
		// Nothing was attempted, so nothing is logged as failed.
		d.Log.Infow("no recipient for order, skipping",
			"order_id", order.OrderID, "customer_id", order.CustomerID)
		return nil
	}

	data := d.buildData(ctx, order, customer, afterCanonical)

	email, err := render(data)
	if err != nil {
		// Invalid template input (e.g. SHIPPED without a tracking id) is a
		// failed attempt: recorded, marker untouched, swallowed.
		d.record(ctx, order.OrderID, afterCanonical, customer.Email, OutcomeFailed, err.Error())
		return nil
	}

	if err := d.Channel.Send(ctx, customer.Email, email.Subject, email.HTML); err != nil {
		// Marker stays untouched so a redelivered trigger can retry this
		// same transition and still be recognized as pending.
		d.record(ctx, order.OrderID, afterCanonical, customer.Email, OutcomeFailed, err.Error())
		return nil
	}

	if err := d.Orders.MarkNotified(ctx, order.OrderID, afterCanonical); err != nil {
		if errors.Is(err, orders.ErrConditionFailed) {
			// A concurrent dispatch won the marker write. The customer may
			// have received a duplicate email; an accepted risk without a
			// cross-invocation lock.
			d.Log.Warnw("notification marker already set by concurrent dispatch",
				"order_id", order.OrderID, "status", afterCanonical)
		} else {
			d.Log.Errorw("failed to update notification marker",
				"order_id", order.OrderID, "status", afterCanonical, "error", err)
		}
	}

	d.record(ctx, order.OrderID, afterCanonical, customer.Email, OutcomeSuccess, "")
	return nil
}

// buildData assembles template input. RECEIVED is the only status with live
// catalog reads: per-item enrichment and the promotional list. Everything
// else works off the names denormalized onto the order.
func (d *Dispatcher) buildData(ctx context.Context, order *orders.Order, customer *customers.Customer, afterCanonical string) TemplateData {
	data := TemplateData{
		CustomerName:      customer.Name,
		OrderNumber:       order.OrderNumber,
		TotalAmount:       order.TotalAmount,
		TrackingID:        order.TrackingID,
		TrackingURL:       order.TrackingURL,
		Courier:           order.Courier,
		EstimatedDelivery: order.EstimatedDelivery,
		TrackingBase:      d.TrackingBase,
		SupportEmail:      d.SupportEmail,
	}
	for _, it := range order.Items {
		data.ProductNames = append(data.ProductNames, fmt.Sprintf("%s %dg", it.Name, it.Grams))
	}

	if afterCanonical != status.Received {
		return data
	}

	enriched := map[string]catalog.EnrichedProduct{}
	if d.Enrich != nil {
		enriched = d.Enrich.Enrich(ctx, order.Items)
	}
	for _, it := range order.Items {
		line := ReceivedLine{
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			Grams:     it.Grams,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		if ep, ok := enriched[it.ProductID]; ok {
			line.ImageURL = ep.ImageURL
			line.ProductURL = ep.ProductURL
		}
		data.Items = append(data.Items, line)
	}

	if d.Featured != nil {
		featured, err := d.Featured.GetFeatured(ctx)
		if err != nil {
			// Promotional content is optional; the confirmation must not
			// wait on it.
			d.Log.Warnw("featured products unavailable", "error", err)
		} else {
			data.Featured = featured
		}
	}
	return data
}

// record writes the audit entry and the metric for one attempt. Audit-write
// failures must not crash the dispatcher: they fall back to the logger.
func (d *Dispatcher) record(ctx context.Context, orderID, kind, recipient, outcome, errDetail string) {
	if err := d.Audit.Record(ctx, orderID, kind, recipient, outcome, errDetail); err != nil {
		d.Log.Errorw("audit log write failed",
			"order_id", orderID, "kind", kind, "outcome", outcome, "error", err)
	}
	if d.Metrics != nil {
		if err := d.Metrics.RecordOutcome(ctx, kind, outcome == OutcomeSuccess); err != nil {
			d.Log.Warnw("metric emit failed", "kind", kind, "error", err)
		}
	}
}
