package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/catalog"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/customers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/logging"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/orders"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/status"
)

type fakeOrders struct {
	order     *orders.Order
	markCalls int
	markErr   error
}

func (f *fakeOrders) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	return f.order, nil
}

func (f *fakeOrders) MarkNotified(ctx context.Context, orderID, notifiedStatus string) error {
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	f.order.LastNotifiedStatus = notifiedStatus
	return nil
}

type fakeCustomers struct {
	customer *customers.Customer
}

func (f *fakeCustomers) Get(ctx context.Context, customerID string) (*customers.Customer, error) {
	return f.customer, nil
}

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeSender struct {
	sent    []sentMail
	failErr error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, html string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

type auditCall struct {
	kind    string
	outcome string
	detail  string
}

type fakeAudit struct {
	calls   []auditCall
	failErr error
}

func (f *fakeAudit) Record(ctx context.Context, orderID, kind, recipient, outcome, errDetail string) error {
	f.calls = append(f.calls, auditCall{kind: kind, outcome: outcome, detail: errDetail})
	return f.failErr
}

type fakeEnricher struct{ calls int }

func (f *fakeEnricher) Enrich(ctx context.Context, items []orders.LineItem) map[string]catalog.EnrichedProduct {
	f.calls++
	return map[string]catalog.EnrichedProduct{}
}

type fakeFeatured struct{}

func (fakeFeatured) GetFeatured(ctx context.Context) ([]catalog.FeaturedProduct, error) {
	return nil, nil
}

func testOrder() *orders.Order {
	return &orders.Order{
		OrderID:     "ord-1",
		OrderNumber: "22456989",
		CustomerID:  "cust-1",
		Status:      "RECEIVED",
		Items: []orders.LineItem{
			{ProductID: "p1", Name: "Ethiopian Yirgacheffe", Grams: 250, Quantity: 1, UnitPrice: 649.5, Subtotal: 649.5},
		},
		TotalAmount: 649.5,
		Currency:    "INR",
	}
}

func newDispatcher(o *fakeOrders, c *fakeCustomers, s *fakeSender, a *fakeAudit) *Dispatcher {
	return &Dispatcher{
		Orders:    o,
		Customers: c,
		Enrich:    &fakeEnricher{},
		Featured:  fakeFeatured{},
		Channel:   s,
		Audit:     a,
		Log:       logging.NewNop(),
	}
}

func TestDispatch_CreateThenAccept(t *testing.T) {
	o := &fakeOrders{order: testOrder()}
	c := &fakeCustomers{customer: &customers.Customer{CustomerID: "cust-1", Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	// order created: RECEIVED email, marker set, one success log entry
	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType: aws.EventOrderCreated,
		OrderID:   "ord-1",
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].subject, "22456989")
	assert.Equal(t, "asha@example.com", s.sent[0].to)
	assert.Equal(t, status.Received, o.order.LastNotifiedStatus)
	require.Len(t, a.calls, 1)
	assert.Equal(t, OutcomeSuccess, a.calls[0].outcome)
	assert.Equal(t, status.Received, a.calls[0].kind)

	// operator moves it to ACCEPTED
	o.order.Status = "ACCEPTED"
	err = d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "RECEIVED",
		AfterStatus:  "ACCEPTED",
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 2)
	assert.Equal(t, status.Accepted, o.order.LastNotifiedStatus)
	require.Len(t, a.calls, 2)
	assert.Equal(t, status.Accepted, a.calls[1].kind)
}

func TestDispatch_Idempotent(t *testing.T) {
	order := testOrder()
	order.Status = "ACCEPTED"
	order.LastNotifiedStatus = "ACCEPTED"
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	// a redelivered update event for an already-notified transition
	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "RECEIVED",
		AfterStatus:  "ACCEPTED",
	})
	require.NoError(t, err)
	assert.Empty(t, s.sent)
	assert.Empty(t, a.calls)
	assert.Zero(t, o.markCalls)
}

func TestDispatch_IdempotentOnCreateReplay(t *testing.T) {
	order := testOrder()
	order.LastNotifiedStatus = "RECEIVED"
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType: aws.EventOrderCreated,
		OrderID:   "ord-1",
	})
	require.NoError(t, err)
	assert.Empty(t, s.sent)
	assert.Empty(t, a.calls)
}

func TestDispatch_NoOpWhenStatusUnchanged(t *testing.T) {
	order := testOrder()
	order.Status = "SHIPPED"
	order.LastNotifiedStatus = "" // marker absent: only Guard 1 can stop this
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	// tracking-id-only edit: status spelled differently but canonically equal
	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "order_shipped",
		AfterStatus:  "SHIPPED",
	})
	require.NoError(t, err)
	assert.Empty(t, s.sent)
	assert.Empty(t, a.calls)
	assert.Zero(t, o.markCalls)
}

func TestDispatch_UnknownStatusIsNoOp(t *testing.T) {
	order := testOrder()
	order.Status = "REFUNDED"
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "DELIVERED",
		AfterStatus:  "REFUNDED",
	})
	require.NoError(t, err)
	assert.Empty(t, s.sent)
	assert.Empty(t, a.calls)
}

func TestDispatch_NoRecipient(t *testing.T) {
	o := &fakeOrders{order: testOrder()}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao"}} // no email
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType: aws.EventOrderCreated,
		OrderID:   "ord-1",
	})
	require.NoError(t, err)
	// nothing was attempted, so nothing is logged as failed
	assert.Empty(t, s.sent)
	assert.Empty(t, a.calls)
	assert.Zero(t, o.markCalls)
}

func TestDispatch_SendFailure(t *testing.T) {
	order := testOrder()
	order.Status = "PACKED"
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{failErr: errors.New("smtp: connection refused")}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "ACCEPTED",
		AfterStatus:  "PACKED",
	})
	// the failure is swallowed, recorded, and the marker is untouched so a
	// redelivered trigger can retry this same transition
	require.NoError(t, err)
	require.Len(t, a.calls, 1)
	assert.Equal(t, OutcomeFailed, a.calls[0].outcome)
	assert.Contains(t, a.calls[0].detail, "connection refused")
	assert.Zero(t, o.markCalls)
	assert.Empty(t, o.order.LastNotifiedStatus)
}

func TestDispatch_ShippedWithoutTrackingID(t *testing.T) {
	order := testOrder()
	order.Status = "SHIPPED" // no tracking id on the document
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "PACKED",
		AfterStatus:  "SHIPPED",
	})
	require.NoError(t, err)
	// rejected before the channel: failed log entry, nothing sent, marker untouched
	assert.Empty(t, s.sent)
	require.Len(t, a.calls, 1)
	assert.Equal(t, OutcomeFailed, a.calls[0].outcome)
	assert.Empty(t, o.order.LastNotifiedStatus)
}

func TestDispatch_AuditWriteFailureDoesNotPropagate(t *testing.T) {
	o := &fakeOrders{order: testOrder()}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{failErr: errors.New("notification_log throttled")}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType: aws.EventOrderCreated,
		OrderID:   "ord-1",
	})
	// the audit write is best-effort: the email went out, the marker is set,
	// and the failure never reaches the trigger platform
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, status.Received, o.order.LastNotifiedStatus)
}

func TestDispatch_MarkerRaceStillRecordsSuccess(t *testing.T) {
	o := &fakeOrders{order: testOrder(), markErr: orders.ErrConditionFailed}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	// a concurrent dispatch won the marker write between our send and our
	// MarkNotified; the attempt still succeeded from this side
	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType: aws.EventOrderCreated,
		OrderID:   "ord-1",
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, 1, o.markCalls)
	require.Len(t, a.calls, 1)
	assert.Equal(t, OutcomeSuccess, a.calls[0].outcome)
}

func TestDispatch_PermissiveBackwardsTransition(t *testing.T) {
	// CANCELLED -> DELIVERED is semantically odd but the pipeline reacts to
	// change, not to ordering.
	order := testOrder()
	order.Status = "DELIVERED"
	order.LastNotifiedStatus = "CANCELLED"
	o := &fakeOrders{order: order}
	c := &fakeCustomers{customer: &customers.Customer{Name: "Asha Rao", Email: "asha@example.com"}}
	s := &fakeSender{}
	a := &fakeAudit{}
	d := newDispatcher(o, c, s, a)

	err := d.HandleEvent(context.Background(), aws.OrderChangeEvent{
		EventType:    aws.EventOrderUpdated,
		OrderID:      "ord-1",
		BeforeStatus: "CANCELLED",
		AfterStatus:  "DELIVERED",
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, status.Delivered, o.order.LastNotifiedStatus)
}
