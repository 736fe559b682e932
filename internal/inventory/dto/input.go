package dto

import "time"

type ReceiptInput struct {
	ProductID      string
	WarehouseID    string
	Quantity       int
	ExpirationDate *time.Time
}
