package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

// Notification outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// LogEntry is one append-only audit record: one per dispatch attempt,
// never mutated, never deleted.
type LogEntry struct {
	EntryID     string    `dynamodbav:"entry_id"` // PK
	OrderID     string    `dynamodbav:"order_id"`
	Kind        string    `dynamodbav:"kind"` // canonical status the email was for
	Recipient   string    `dynamodbav:"recipient"`
	Outcome     string    `dynamodbav:"outcome"`
	ErrorDetail string    `dynamodbav:"error_detail,omitempty"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

// AuditStore appends notification attempts to the notification-log table.
type AuditStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(client aws.DynamoDBAPI, tableName string) *AuditStore {
	return &AuditStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Record writes exactly one new log item. The timestamp is assigned here,
// at write time, rather than trusting whatever clock produced the event.
func (s *AuditStore) Record(ctx context.Context, orderID, kind, recipient, outcome, errDetail string) error {
	entry := LogEntry{
		EntryID:     uuid.NewString(),
		OrderID:     orderID,
		Kind:        kind,
		Recipient:   recipient,
		Outcome:     outcome,
		ErrorDetail: errDetail,
		CreatedAt:   s.nowFunc(),
	}
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put log entry: %w", err)
	}
	return nil
}
