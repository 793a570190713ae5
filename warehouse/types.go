package warehouse

import (
	"time"
)

// Address represents a physical or billing/shipping address.
type Address struct {
	ID         uint      `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Customer represents a store customer/user.
type Customer struct {
	ID           uint       `json:"id"`
	Email        string     `caster:"required"             json:"email"`
	FullName     string     `json:"full_name"`
	AddressCity  string     `json:"address_city"`
	PasswordHash string     `caster:"-"                    json:"-"` // never mapped
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`

	// Relationships
	Orders []Order `json:"orders,omitempty"`

	CreatedAt time.Time `caster:"init" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents a sellable item in the store.
type Product struct {
	ID          uint    `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"` // in cents (minor currency unit)
	Stock       int     `json:"stock"`
	IsActive    bool    `json:"is_active"`
	Weight      float64 `json:"weight"` // in grams, useful for shipping

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order represents a customer's purchase.
type Order struct {
	ID          uint        `json:"id"`
	CustomerID  uint        `json:"customer_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"` // in cents
	Currency    string      `json:"currency"`

	// Embedded addresses for snapshot (common denormalization practice)
	ShippingAddress Address `json:"shipping_address"`
	BillingAddress  Address `json:"billing_address"`

	// Relationships
	Customer *Customer   `json:"customer"`
	Items    []OrderItem `json:"items"`

	PlacedAt  *time.Time `json:"placed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ID         uint  `json:"id"`
	OrderID    uint  `json:"order_id"`
	ProductID  uint  `json:"product_id"`
	Quantity   int   `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`  // price at time of purchase (in cents)
	TotalPrice int64 `json:"total_price"` // UnitPrice * Quantity

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderStatus mirrors the store order lifecycle.
type OrderStatus int32

const (
	StatusPending OrderStatus = iota
	StatusPaid
	StatusShipped
	StatusCancelled
	StatusReturned
)
