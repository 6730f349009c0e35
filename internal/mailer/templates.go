package mailer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/status"
)

// Template input errors. A render error is handled by the dispatcher as a
// failed attempt, never sent.
var (
	ErrMissingOrderNumber = errors.New("order number is required")
	ErrMissingTrackingID  = errors.New("tracking id is required for shipped emails")
)

const (
	brandName = "Bean & Barrel Roastery"

	// Fallback used when the order carries a tracking id but no explicit
	// tracking URL.
	trackingFallbackBase = "https://track.roastery.in/t"
)

// templates maps each canonical status to its single production template.
// Statuses not in this map (unknown strings that normalized to themselves)
// are a no-op for the dispatcher, not an error.
var templates = map[string]TemplateFunc{
	status.Received:  RenderReceived,
	status.Accepted:  RenderAccepted,
	status.Packed:    RenderPacked,
	status.Shipped:   RenderShipped,
	status.Delivered: RenderDelivered,
	status.Cancelled: RenderCancelled,
}

// ForStatus returns the template for a canonical status, or false when the
// status has no mapped template.
func ForStatus(s string) (TemplateFunc, bool) {
	fn, ok := templates[s]
	return fn, ok
}

// inr renders an amount the way every email shows money: rupee symbol,
// exactly two decimals.
func inr(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

func header() string {
	return fmt.Sprintf(`<div style="background:#2b1d12;padding:24px;text-align:center;">`+
		`<h1 style="color:#e8d5b5;margin:0;font-family:Georgia,serif;">%s</h1>`+
		`</div>`, brandName)
}

func greeting(name string) string {
	return fmt.Sprintf(`<p style="font-size:16px;">Hi %s,</p>`, name)
}

func footer(supportEmail string) string {
	if supportEmail == "" {
		supportEmail = "support@roastery.in"
	}
	return fmt.Sprintf(`<hr style="border:none;border-top:1px solid #ddd;margin:24px 0;">`+
		`<p style="font-size:12px;color:#777;">Questions about your order? Write to us at `+
		`<a href="mailto:%s">%s</a>. We reply within one working day.</p>`+
		`<p style="font-size:12px;color:#777;">%s &middot; Freshly roasted in small batches</p>`,
		supportEmail, supportEmail, brandName)
}

// namesList renders the flat product-name listing used by every status
// except RECEIVED.
func namesList(names []string) string {
	var b strings.Builder
	b.WriteString(`<ul style="padding-left:20px;">`)
	for _, n := range names {
		fmt.Fprintf(&b, `<li style="margin:4px 0;">%s</li>`, n)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func nextSteps(text string) string {
	return fmt.Sprintf(`<div style="background:#f6f1e7;border-radius:6px;padding:16px;margin:16px 0;">`+
		`<p style="margin:0;font-weight:bold;">What happens next</p>`+
		`<p style="margin:8px 0 0 0;">%s</p>`+
		`</div>`, text)
}

func wrap(body string) string {
	return `<html><body style="margin:0;font-family:Helvetica,Arial,sans-serif;color:#333;">` +
		body + `</body></html>`
}

// RenderReceived is the rich order-confirmation email: per-item images,
// prices and subtotals, the order total, and the optional featured-products
// promotional block.
func RenderReceived(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Thank you for your order! We've received order <strong>#%s</strong> and our roasters are on it.</p>`, d.OrderNumber)

	b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
	for _, it := range d.Items {
		fmt.Fprintf(&b,
			`<tr style="border-bottom:1px solid #eee;">`+
				`<td style="padding:12px 8px;width:72px;"><a href="%s"><img src="%s" alt="%s" width="64" height="64" style="border-radius:4px;"></a></td>`+
				`<td style="padding:12px 8px;"><a href="%s" style="color:#2b1d12;text-decoration:none;font-weight:bold;">%s</a><br>`+
				`<span style="color:#777;font-size:13px;">%dg &times; %d</span></td>`+
				`<td style="padding:12px 8px;text-align:right;">%s<br><span style="color:#777;font-size:13px;">%s each</span></td>`+
				`</tr>`,
			it.ProductURL, it.ImageURL, it.Name,
			it.ProductURL, it.Name,
			it.Grams, it.Quantity,
			inr(it.Subtotal), inr(it.UnitPrice))
	}
	fmt.Fprintf(&b,
		`<tr><td></td><td style="padding:12px 8px;text-align:right;font-weight:bold;">Total</td>`+
			`<td style="padding:12px 8px;text-align:right;font-weight:bold;">%s</td></tr>`,
		inr(d.TotalAmount))
	b.WriteString(`</table>`)

	b.WriteString(nextSteps(`We roast to order. Your beans go into the roaster within a day, ` +
		`and you'll hear from us again the moment your order is accepted for roasting.`))

	if len(d.Featured) > 0 {
		b.WriteString(`<p style="font-weight:bold;margin-top:24px;">While you wait, a few things we love right now:</p>`)
		b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
		for _, fp := range d.Featured {
			fmt.Fprintf(&b,
				`<tr><td style="padding:8px;width:56px;"><a href="%s"><img src="%s" alt="%s" width="48" height="48" style="border-radius:4px;"></a></td>`+
					`<td style="padding:8px;"><a href="%s" style="color:#2b1d12;">%s</a></td>`+
					`<td style="padding:8px;text-align:right;">%s</td></tr>`,
				fp.Link, fp.ImageURL, fp.Name, fp.Link, fp.Name, inr(fp.Price))
		}
		b.WriteString(`</table>`)
	}

	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order received - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}

// RenderAccepted confirms the order went to the roasting queue.
func RenderAccepted(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Good news: order <strong>#%s</strong> has been accepted and is queued for roasting.</p>`, d.OrderNumber)
	b.WriteString(namesList(d.ProductNames))
	b.WriteString(nextSteps(`Your beans are roasted fresh, rested just long enough to degas, ` +
		`then packed. We'll email you when your order is packed and again when it ships.`))
	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order accepted - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}

// RenderPacked confirms the order left the packing bench.
func RenderPacked(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Order <strong>#%s</strong> is roasted, rested and packed.</p>`, d.OrderNumber)
	b.WriteString(namesList(d.ProductNames))
	b.WriteString(nextSteps(`Your parcel is sealed and waiting for courier pickup. ` +
		`The next email you get will carry your tracking number.`))
	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order packed - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}

// RenderShipped carries the tracking identifier and link; the tracking id is
// the one hard template requirement in the pipeline. When no explicit
// tracking URL is supplied the link is constructed from the id.
func RenderShipped(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}
	if d.TrackingID == "" {
		return Email{}, ErrMissingTrackingID
	}

	trackingURL := d.TrackingURL
	if trackingURL == "" {
		base := d.TrackingBase
		if base == "" {
			base = trackingFallbackBase
		}
		trackingURL = fmt.Sprintf("%s/%s", base, d.TrackingID)
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Order <strong>#%s</strong> is on its way to you.</p>`, d.OrderNumber)
	b.WriteString(namesList(d.ProductNames))

	fmt.Fprintf(&b, `<div style="background:#f6f1e7;border-radius:6px;padding:16px;margin:16px 0;">`+
		`<p style="margin:0;">Tracking number: <strong>%s</strong></p>`, d.TrackingID)
	if d.Courier != "" {
		fmt.Fprintf(&b, `<p style="margin:8px 0 0 0;">Courier: %s</p>`, d.Courier)
	}
	if d.EstimatedDelivery != "" {
		fmt.Fprintf(&b, `<p style="margin:8px 0 0 0;">Estimated delivery: %s</p>`, d.EstimatedDelivery)
	}
	fmt.Fprintf(&b, `<p style="margin:12px 0 0 0;"><a href="%s" style="background:#2b1d12;color:#e8d5b5;`+
		`padding:10px 18px;border-radius:4px;text-decoration:none;display:inline-block;">Track your parcel</a></p>`+
		`</div>`, trackingURL)

	b.WriteString(nextSteps(`Give the beans a day or two after arrival before brewing; ` +
		`they keep improving for the first couple of weeks off roast.`))
	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order shipped - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}

// RenderDelivered closes the loop once the courier confirms delivery.
func RenderDelivered(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Order <strong>#%s</strong> has been delivered. Enjoy the coffee!</p>`, d.OrderNumber)
	b.WriteString(namesList(d.ProductNames))
	b.WriteString(nextSteps(`Store the bags somewhere cool and dark, away from the fridge. ` +
		`If anything about the delivery wasn't right, reply to this email and we'll fix it.`))
	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order delivered - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}

// RenderCancelled confirms the cancellation and the refund amount.
func RenderCancelled(d TemplateData) (Email, error) {
	if d.OrderNumber == "" {
		return Email{}, ErrMissingOrderNumber
	}

	var b strings.Builder
	b.WriteString(header())
	b.WriteString(greeting(d.CustomerName))
	fmt.Fprintf(&b, `<p>Order <strong>#%s</strong> has been cancelled.</p>`, d.OrderNumber)
	b.WriteString(namesList(d.ProductNames))
	fmt.Fprintf(&b, `<p>A refund of <strong>%s</strong> will be issued to your original payment method. `+
		`Refunds usually land within 5&ndash;7 working days.</p>`, inr(d.TotalAmount))
	b.WriteString(nextSteps(`No action is needed from you. If you cancelled by mistake, ` +
		`place a new order any time; your saved addresses are untouched.`))
	b.WriteString(footer(d.SupportEmail))

	return Email{
		Subject: fmt.Sprintf("Order cancelled - #%s", d.OrderNumber),
		HTML:    wrap(b.String()),
	}, nil
}
