package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Event types carried on the order-events queue.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// OrderChangeEvent is the payload published for every order mutation. The
// notifier treats it as a trigger, not as truth: it carries the before/after
// status snapshot but the dispatcher re-reads the order document before
// deciding anything.
type OrderChangeEvent struct {
	EventType     string `json:"event_type"`
	OrderID       string `json:"order_id"`
	BeforeStatus  string `json:"before_status,omitempty"`
	AfterStatus   string `json:"after_status,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishOrderChange marshals the event and sends it to the order-events
// queue. The order id and event type are duplicated into message attributes
// so operators can filter in the console without parsing bodies.
func (p *Publisher) PublishOrderChange(ctx context.Context, ev OrderChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	bodyStr := string(body)

	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"event_type": {
				DataType:    awsString("String"),
				StringValue: &ev.EventType,
			},
			"order_id": {
				DataType:    awsString("String"),
				StringValue: &ev.OrderID,
			},
		},
	}

	_, err = p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
