package validation

import (
	"testing"
)

func validCreateOrder() CreateOrderRequest {
	return CreateOrderRequest{
		OrderNumber: "22456989",
		CustomerID:  "cust-123",
		Items: []Item{
			{ProductID: "p1", Name: "Ethiopian Yirgacheffe", Grams: 250, Quantity: 2, UnitPrice: 324.75},
			{ProductID: "p2", Name: "Monsoon Malabar", Grams: 500, Quantity: 1, UnitPrice: 550.0},
		},
		TotalAmount: 1199.5, // 2*324.75 + 550
		Currency:    "INR",
		DeliveryAddress: AddressInput{
			Line1:      "14 MG Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560001",
		},
	}
}

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()

	if err := v.Struct(validCreateOrder()); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_TotalMismatch(t *testing.T) {
	v := New()

	req := validCreateOrder()
	req.TotalAmount = 999.99

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for total mismatch, got nil")
	}
}

func TestCreateOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		// OrderNumber and CustomerID missing
		Items:       []Item{},
		TotalAmount: 0,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestUpdateStatusRequest_FreeFormStatus(t *testing.T) {
	v := New()

	// the status field is deliberately unconstrained; normalization happens
	// downstream
	req := UpdateStatusRequest{Status: "order_shipped", TrackingID: "AWB123"}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}

	if err := v.Struct(UpdateStatusRequest{}); err == nil {
		t.Fatal("expected error for empty status, got nil")
	}
}

func TestCreateAdminUserRequest_RoleEnum(t *testing.T) {
	v := New()

	req := CreateAdminUserRequest{Username: "asha", Email: "asha@example.com", Role: "manager"}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}

	req.Role = "intern"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected error for unknown role, got nil")
	}
}
