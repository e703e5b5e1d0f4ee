package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodIyzico PaymentMethod = "iyzico"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodIyzico
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPending},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Address is the shipping destination of an order. Country defaults to
// Turkey when omitted.
type Address struct {
	FullName    string `bson:"full_name" json:"full_name" binding:"required,max=100"`
	Phone       string `bson:"phone" json:"phone" binding:"required,max=30"`
	AddressLine string `bson:"address_line" json:"address_line" binding:"required,max=300"`
	City        string `bson:"city" json:"city" binding:"required,max=100"`
	PostalCode  string `bson:"postal_code" json:"postal_code" binding:"required,max=20"`
	Country     string `bson:"country" json:"country" binding:"omitempty,max=100"`
}

// DefaultCountry fills an empty country.
const DefaultCountry = "Turkey"

// OrderItem is a line item frozen at placement time.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Name      string  `bson:"name" json:"name"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
}

type Order struct {
	ID              string        `bson:"_id" json:"_id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	Items           []OrderItem   `bson:"items" json:"items"`
	Total           float64       `bson:"total" json:"total"`
	Shipping        float64       `bson:"shipping" json:"shipping"`
	Status          OrderStatus   `bson:"status" json:"status"`
	ShippingAddress Address       `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// OrderState is the pair of lifecycle fields an admin can change.
type OrderState struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

// State returns the order's current lifecycle fields.
func (o *Order) State() OrderState {
	return OrderState{Status: o.Status, PaymentStatus: o.PaymentStatus}
}

// OrderLine is an order line joined with the live product record.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderView is the admin representation of an order.
type OrderView struct {
	ID              string        `json:"_id"`
	UserID          string        `json:"user_id"`
	Items           []OrderLine   `json:"items"`
	Total           float64       `json:"total"`
	Shipping        float64       `json:"shipping"`
	Status          OrderStatus   `json:"status"`
	ShippingAddress Address       `json:"shipping_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
