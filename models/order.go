package models

import "time"

// Order lifecycle statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderItemCreate is one line submitted when placing an order. The unit
// price is snapshotted at purchase time.
type OrderItemCreate struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderCreate struct {
	Items           []OrderItemCreate `json:"items"`
	ShippingAddress string            `json:"shipping_address"`
}

type OrderItem struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Subtotal     float64 `json:"subtotal"`
	ProductName  string  `json:"product_name"`
	ProductBrand string  `json:"product_brand"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	Total           float64     `json:"total"`
	Items           []OrderItem `json:"order_items"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderList struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Pages int     `json:"pages"`
}

// OrderPlacedEvent is published to Kafka after a successful checkout.
type OrderPlacedEvent struct {
	Event     string     `json:"event"`
	OrderID   string     `json:"order_id"`
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	Total     float64    `json:"total"`
	PaymentID string     `json:"payment_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
