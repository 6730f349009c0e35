package adminusers

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

// ErrAlreadyExists is returned when creating a user whose id is taken.
var ErrAlreadyExists = errors.New("admin user already exists")

// Store encapsulates operations on the admin-users table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new admin-users Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches an admin user by user_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, userID string) (*AdminUser, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var u AdminUser
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal admin user: %w", err)
	}
	return &u, nil
}

// Create writes a new admin user, guarded against id reuse.
func (s *Store) Create(ctx context.Context, u AdminUser) error {
	now := s.nowFunc()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal admin user: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put admin user: %w", err)
	}
	return nil
}

// UpdateRole changes a user's role.
func (s *Store) UpdateRole(ctx context.Context, userID, newRole string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression:         awsString("SET #r = :r, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#r": "role"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r":  &types.AttributeValueMemberS{Value: newRole},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Deactivate soft-disables an account. Accounts are never hard-deleted, in
// line with everything else in this system.
func (s *Store) Deactivate(ctx context.Context, userID string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: awsString("SET active = :f, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("deactivate admin user: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
