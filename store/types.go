package store

import (
	"fmt"
	"time"
)

// Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Address is the postal address of a customer.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Address  *Address `json:"address"`
	IsActive bool     `json:"is_active"`
	Orders   []Order  `json:"orders"`

	// Deprecated: use Email.
	Login string `json:"login"`
}

// NewCustomer creates a customer with its identity fields set.
//
//caster:constructor
func NewCustomer(id int64, email string) *Customer {
	return &Customer{ID: id, Email: email}
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Customer   *Customer   `json:"customer"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"` // Has-Many relationship
	OrderedAt  time.Time   `json:"ordered_at"`
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"` // Redundant but useful for history if product name changes
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	StatusPending OrderStatus = iota
	StatusPaid
	StatusShipped
	StatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusPaid:
		return "PAID"
	case StatusShipped:
		return "SHIPPED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// ParseOrderStatus is the inverse of OrderStatus.String.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for st := StatusPending; st <= StatusCancelled; st++ {
		if st.String() == s {
			return st, nil
		}
	}

	return 0, fmt.Errorf("unknown order status %q", s)
}

// Permission is a set of customer permissions.
//
//caster:flags
type Permission uint8

const (
	PermissionRead Permission = 1 << iota
	PermissionWrite
	PermissionAdmin
)
