package orders

import "time"

// LineItem is one purchased product, denormalized at order time so the
// order (and its emails) survive later catalog edits.
type LineItem struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Name      string  `dynamodbav:"name" json:"name"`
	Category  string  `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Roast     string  `dynamodbav:"roast,omitempty" json:"roast,omitempty"`
	ImageURL  string  `dynamodbav:"image_url,omitempty" json:"image_url,omitempty"`
	Grams     int     `dynamodbav:"grams" json:"grams"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unit_price"`
	Subtotal  float64 `dynamodbav:"subtotal" json:"subtotal"`
}

// Address is the delivery snapshot copied from the customer's address book
// at checkout. It is never re-read from the live address book afterwards.
type Address struct {
	Label      string `dynamodbav:"label,omitempty" json:"label,omitempty"`
	Line1      string `dynamodbav:"line1" json:"line1"`
	Line2      string `dynamodbav:"line2,omitempty" json:"line2,omitempty"`
	City       string `dynamodbav:"city" json:"city"`
	State      string `dynamodbav:"state" json:"state"`
	PostalCode string `dynamodbav:"postal_code" json:"postal_code"`
	Phone      string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
}

// Order represents the item stored in the orders table.
// Status is free-form on purpose: operators may set any value at any time
// and legacy documents carry old spellings; internal/status normalizes on
// read. LastNotifiedStatus is the notification de-duplication marker.
type Order struct {
	OrderID            string     `dynamodbav:"order_id" json:"order_id"` // PK
	OrderNumber        string     `dynamodbav:"order_number" json:"order_number"`
	CustomerID         string     `dynamodbav:"customer_id" json:"customer_id"`
	Status             string     `dynamodbav:"status" json:"status"`
	LastNotifiedStatus string     `dynamodbav:"last_notified_status,omitempty" json:"last_notified_status,omitempty"`
	Items              []LineItem `dynamodbav:"items" json:"items"`
	TotalAmount        float64    `dynamodbav:"total_amount" json:"total_amount"`
	Currency           string     `dynamodbav:"currency" json:"currency"`
	DeliveryAddress    Address    `dynamodbav:"delivery_address" json:"delivery_address"`
	TrackingID         string     `dynamodbav:"tracking_id,omitempty" json:"tracking_id,omitempty"`
	TrackingURL        string     `dynamodbav:"tracking_url,omitempty" json:"tracking_url,omitempty"`
	Courier            string     `dynamodbav:"courier,omitempty" json:"courier,omitempty"`
	EstimatedDelivery  string     `dynamodbav:"estimated_delivery,omitempty" json:"estimated_delivery,omitempty"`
	CreatedAt          time.Time  `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `dynamodbav:"updated_at" json:"updated_at"`
}
