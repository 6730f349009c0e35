package orders

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a very small in-memory stand-in for the DynamoDB calls the
// orders store makes. It understands exactly the condition and update
// expressions this package writes, nothing more.
type simpleMock struct {
	mu          sync.Mutex
	orders      map[string]map[string]types.AttributeValue // keyed by order_id
	idempotency map[string]map[string]types.AttributeValue // keyed by idempotency_key

	updateCalls   int
	transactCalls int
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		orders:      map[string]map[string]types.AttributeValue{},
		idempotency: map[string]map[string]types.AttributeValue{},
	}
}

func strAttr(m map[string]types.AttributeValue, k string) (string, bool) {
	v, ok := m[k]
	if !ok {
		return "", false
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := strAttr(params.Key, "order_id")
	if !ok {
		return nil, errors.New("missing key")
	}
	item, ok := m.orders[id]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := strAttr(params.Item, "order_id")
	if !ok {
		return nil, errors.New("missing order_id")
	}
	m.orders[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++

	id, ok := strAttr(params.Key, "order_id")
	if !ok {
		return nil, errors.New("missing key")
	}
	item, ok := m.orders[id]
	if !ok {
		return nil, errors.New("item not found")
	}

	vals := params.ExpressionAttributeValues
	if params.ConditionExpression != nil {
		cond := *params.ConditionExpression
		switch {
		case cond == "#s = :expected":
			cur, _ := strAttr(item, "status")
			want, _ := strAttr(vals, ":expected")
			if cur != want {
				return nil, &types.ConditionalCheckFailedException{}
			}
		case strings.Contains(cond, "last_notified_status <> :ns"):
			cur, has := strAttr(item, "last_notified_status")
			want, _ := strAttr(vals, ":ns")
			if has && cur == want {
				return nil, &types.ConditionalCheckFailedException{}
			}
		default:
			return nil, errors.New("unsupported condition: " + cond)
		}
	}

	// naive update: copy known value keys into their attributes
	assign := map[string]string{
		":new":  "status",
		":ns":   "last_notified_status",
		":ua":   "updated_at",
		":tid":  "tracking_id",
		":turl": "tracking_url",
		":cr":   "courier",
		":eta":  "estimated_delivery",
	}
	for valKey, attr := range assign {
		if v, ok := vals[valKey]; ok {
			item[attr] = v
		}
	}
	m.orders[id] = item
	return &dyn.UpdateItemOutput{}, nil
}

func (m *simpleMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactCalls++

	// validate all conditions before applying anything
	for _, ti := range params.TransactItems {
		if ti.Put == nil {
			return nil, errors.New("only Put supported")
		}
		if ti.Put.ConditionExpression == nil {
			continue
		}
		switch *ti.Put.ConditionExpression {
		case "attribute_not_exists(idempotency_key)":
			k, _ := strAttr(ti.Put.Item, "idempotency_key")
			if _, exists := m.idempotency[k]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		case "attribute_not_exists(order_id)":
			k, _ := strAttr(ti.Put.Item, "order_id")
			if _, exists := m.orders[k]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		default:
			return nil, errors.New("unsupported condition")
		}
	}
	for _, ti := range params.TransactItems {
		if k, ok := strAttr(ti.Put.Item, "idempotency_key"); ok {
			m.idempotency[k] = ti.Put.Item
			continue
		}
		if k, ok := strAttr(ti.Put.Item, "order_id"); ok {
			m.orders[k] = ti.Put.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
