package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

// Store encapsulates operations on the customers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new customers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a customer by customer_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, customerID string) (*Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"customer_id": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Customer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &c, nil
}

// RecordOrder bumps the customer's denormalized aggregates for one new
// order. Called exactly once per created order, from the create-order
// handler, never from the notification path.
func (s *Store) RecordOrder(ctx context.Context, customerID string, amount float64) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"customer_id": &types.AttributeValueMemberS{Value: customerID},
		},
		UpdateExpression: awsString("SET total_orders = if_not_exists(total_orders, :zero) + :one, total_spent = if_not_exists(total_spent, :zerof) + :amt, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero":  &types.AttributeValueMemberN{Value: "0"},
			":one":   &types.AttributeValueMemberN{Value: "1"},
			":zerof": &types.AttributeValueMemberN{Value: "0"},
			":amt":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%.2f", amount)},
			":ua":    &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}
	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
