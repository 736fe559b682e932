package model

// OrderStatus is the lifecycle state of an order. The order history is an
// append-only log from this subsystem's point of view; analytics folds
// over it and never writes it.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)
