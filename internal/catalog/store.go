package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

// Store encapsulates read operations on the products and featured-products
// tables. The notification pipeline only ever reads the catalog.
type Store struct {
	client        aws.DynamoDBAPI
	productsTable string
	featuredTable string
}

// NewStore creates a new catalog Store.
func NewStore(client aws.DynamoDBAPI, productsTable, featuredTable string) *Store {
	return &Store{
		client:        client,
		productsTable: productsTable,
		featuredTable: featuredTable,
	}
}

// GetProduct fetches a product by product_id. Returns (nil, nil) if not found.
func (s *Store) GetProduct(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.productsTable,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// GetFeatured fetches the promotional configuration. A missing item or an
// inactive flag both come back as an empty list, never an error the caller
// has to branch on.
func (s *Store) GetFeatured(ctx context.Context) ([]FeaturedProduct, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.featuredTable,
		Key: map[string]types.AttributeValue{
			"config_id": &types.AttributeValueMemberS{Value: featuredConfigID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var cfg FeaturedConfig
	if err := attributevalue.UnmarshalMap(out.Item, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal featured config: %w", err)
	}
	if !cfg.Active {
		return nil, nil
	}
	return cfg.Products, nil
}
