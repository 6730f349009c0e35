package validation

// Item represents a single order line item as submitted by the dashboard.
// Name, category, roast and image are denormalized onto the order here so
// the order document stays renderable after catalog edits.
type Item struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category,omitempty"`
	Roast     string  `json:"roast,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	Grams     int     `json:"grams" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

// AddressInput is the delivery address snapshot supplied at creation.
type AddressInput struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone,omitempty"`
}

// CreateOrderRequest is the payload for POST /orders. The order number is
// supplied manually by the operator and must be unique.
type CreateOrderRequest struct {
	OrderNumber     string       `json:"order_number" validate:"required"`
	CustomerID      string       `json:"customer_id" validate:"required"`
	Items           []Item       `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64      `json:"total_amount" validate:"required,gt=0"`
	Currency        string       `json:"currency" validate:"required,len=3"`
	DeliveryAddress AddressInput `json:"delivery_address" validate:"required"`
}

// UpdateStatusRequest is the payload for PATCH /orders/:id/status. The
// status string is free-form on purpose; the pipeline normalizes it.
// Tracking fields normally ride along with the SHIPPED update.
type UpdateStatusRequest struct {
	Status            string `json:"status" validate:"required"`
	TrackingID        string `json:"tracking_id,omitempty"`
	TrackingURL       string `json:"tracking_url,omitempty"`
	Courier           string `json:"courier,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}

// CreateAdminUserRequest is the payload for POST /admin-users.
type CreateAdminUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin manager staff"`
}

// UpdateAdminRoleRequest is the payload for PATCH /admin-users/:id/role.
type UpdateAdminRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=super_admin admin manager staff"`
}
