package customers

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// customerMock is a minimal in-memory table keyed by customer_id. It
// understands only the if_not_exists counter update this package writes.
type customerMock struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue
}

func newCustomerMock() *customerMock {
	return &customerMock{table: map[string]map[string]types.AttributeValue{}}
}

func (m *customerMock) key(attrs map[string]types.AttributeValue) (string, error) {
	v, ok := attrs["customer_id"]
	if !ok {
		return "", errors.New("missing key")
	}
	return v.(*types.AttributeValueMemberS).Value, nil
}

func (m *customerMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := m.key(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *customerMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := m.key(params.Item)
	if err != nil {
		return nil, err
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *customerMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := m.key(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		item = map[string]types.AttributeValue{
			"customer_id": &types.AttributeValueMemberS{Value: k},
		}
	}

	numAttr := func(name string) float64 {
		n, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			return 0
		}
		f, _ := strconv.ParseFloat(n.Value, 64)
		return f
	}
	vals := params.ExpressionAttributeValues
	parse := func(key string) float64 {
		n, ok := vals[key].(*types.AttributeValueMemberN)
		if !ok {
			return 0
		}
		f, _ := strconv.ParseFloat(n.Value, 64)
		return f
	}

	orders := strconv.FormatFloat(numAttr("total_orders")+parse(":one"), 'f', -1, 64)
	spent := strconv.FormatFloat(numAttr("total_spent")+parse(":amt"), 'f', -1, 64)
	item["total_orders"] = &types.AttributeValueMemberN{Value: orders}
	item["total_spent"] = &types.AttributeValueMemberN{Value: spent}
	item["updated_at"] = vals[":ua"]
	m.table[k] = item
	return &dyn.UpdateItemOutput{}, nil
}

func (m *customerMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return nil, errors.New("not implemented")
}

func TestGet_NotFound(t *testing.T) {
	s := NewStore(newCustomerMock(), "customers-test")

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGet_RoundTrip(t *testing.T) {
	mock := newCustomerMock()
	item, err := attributevalue.MarshalMap(Customer{
		CustomerID: "cust-1",
		Name:       "Asha Rao",
		Email:      "asha@example.com",
	})
	require.NoError(t, err)
	mock.table["cust-1"] = item

	s := NewStore(mock, "customers-test")
	got, err := s.Get(context.Background(), "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "asha@example.com", got.Email)
}

func TestRecordOrder_BumpsAggregates(t *testing.T) {
	mock := newCustomerMock()
	item, err := attributevalue.MarshalMap(Customer{CustomerID: "cust-1", Name: "Asha Rao"})
	require.NoError(t, err)
	mock.table["cust-1"] = item

	s := NewStore(mock, "customers-test")
	s.nowFunc = func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) }

	require.NoError(t, s.RecordOrder(context.Background(), "cust-1", 649.5))
	require.NoError(t, s.RecordOrder(context.Background(), "cust-1", 550.0))

	got, err := s.Get(context.Background(), "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TotalOrders)
	assert.InDelta(t, 1199.5, got.TotalSpent, 0.001)
}
