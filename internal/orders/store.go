package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

// ErrConditionFailed is returned when a conditional update lost to a
// concurrent writer (status changed underneath us, or the notification
// marker was already set).
var ErrConditionFailed = errors.New("conditional check failed")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// CreateWithIdempotencyTransaction atomically creates:
//   - idempotency record in idempotencyTable (with ConditionExpression attribute_not_exists(idempotency_key))
//   - order record in the orders table (guarded on attribute_not_exists(order_id))
//
// idempotencyItem must be a serializable struct or map carrying the
// idempotency_key attribute; order.OrderID must be set by the caller.
func (s *Store) CreateWithIdempotencyTransaction(ctx context.Context, idempotencyTable string, idempotencyItem interface{}, order Order, ttlWindow time.Duration) error {
	idempMap, err := attributevalue.MarshalMap(idempotencyItem)
	if err != nil {
		return fmt.Errorf("marshal idempotency item: %w", err)
	}
	if _, ok := idempMap["expires_at"]; !ok && ttlWindow > 0 {
		expires := s.nowFunc().Add(ttlWindow).Unix()
		idempMap["expires_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expires)}
	}

	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	transactItems := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           &idempotencyTable,
				Item:                idempMap,
				ConditionExpression: awsString("attribute_not_exists(idempotency_key)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           &s.tableName,
				Item:                orderMap,
				ConditionExpression: awsString("attribute_not_exists(order_id)"),
			},
		},
	}

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return fmt.Errorf("transaction canceled (likely idempotency key exists): %w", err)
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// UpdateStatus sets the order status to newStatus, guarded on the status
// still being expectedStatus so two operators editing the same order do not
// silently clobber each other. Optional tracking fields ride along: from
// SHIPPED onward the dashboard supplies the tracking id and courier.
// Returns ErrConditionFailed if the guard lost.
func (s *Store) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string, tracking *TrackingUpdate) error {
	now := s.nowFunc()
	updateExpr := "SET #s = :new, updated_at = :ua"
	values := map[string]types.AttributeValue{
		":new":      &types.AttributeValueMemberS{Value: newStatus},
		":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		":expected": &types.AttributeValueMemberS{Value: expectedStatus},
	}
	if tracking != nil {
		if tracking.TrackingID != "" {
			updateExpr += ", tracking_id = :tid"
			values[":tid"] = &types.AttributeValueMemberS{Value: tracking.TrackingID}
		}
		if tracking.TrackingURL != "" {
			updateExpr += ", tracking_url = :turl"
			values[":turl"] = &types.AttributeValueMemberS{Value: tracking.TrackingURL}
		}
		if tracking.Courier != "" {
			updateExpr += ", courier = :cr"
			values[":cr"] = &types.AttributeValueMemberS{Value: tracking.Courier}
		}
		if tracking.EstimatedDelivery != "" {
			updateExpr += ", estimated_delivery = :eta"
			values[":eta"] = &types.AttributeValueMemberS{Value: tracking.EstimatedDelivery}
		}
	}

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("#s = :expected"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrConditionFailed
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// TrackingUpdate carries the shipping fields an operator may attach while
// changing status.
type TrackingUpdate struct {
	TrackingID        string
	TrackingURL       string
	Courier           string
	EstimatedDelivery string
}

// MarkNotified records that a notification went out for notifiedStatus by
// setting last_notified_status. The write is conditional on the marker not
// already holding that value, so when duplicate trigger deliveries race the
// loser gets ErrConditionFailed instead of a second silent write. This
// narrows the duplicate-send window but does not close it: the send itself
// happens before this write.
func (s *Store) MarkNotified(ctx context.Context, orderID, notifiedStatus string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET last_notified_status = :ns, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ns": &types.AttributeValueMemberS{Value: notifiedStatus},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_not_exists(last_notified_status) OR last_notified_status <> :ns"),
	}
	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrConditionFailed
		}
		return fmt.Errorf("update item (mark notified): %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
