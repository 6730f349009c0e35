package customers

import "time"

// Address is one saved address-book entry. CreatedAt never changes after
// the entry is written.
type Address struct {
	Label      string    `dynamodbav:"label,omitempty"`
	Line1      string    `dynamodbav:"line1"`
	Line2      string    `dynamodbav:"line2,omitempty"`
	City       string    `dynamodbav:"city"`
	State      string    `dynamodbav:"state"`
	PostalCode string    `dynamodbav:"postal_code"`
	IsDefault  bool      `dynamodbav:"is_default"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
}

// Customer represents the item stored in the customers table. TotalOrders
// and TotalSpent are denormalized aggregates bumped once per created order.
type Customer struct {
	CustomerID  string    `dynamodbav:"customer_id"` // PK
	Name        string    `dynamodbav:"name"`
	Email       string    `dynamodbav:"email,omitempty"`
	Phone       string    `dynamodbav:"phone,omitempty"`
	Addresses   []Address `dynamodbav:"addresses,omitempty"`
	TotalOrders int       `dynamodbav:"total_orders,omitempty"`
	TotalSpent  float64   `dynamodbav:"total_spent,omitempty"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
}
