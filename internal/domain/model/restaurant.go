package model

import "time"

// Restaurant describes a merchant fulfilling orders. DeliveryFee is the
// per-order charge applied at checkout.
type Restaurant struct {
	ID          int64
	Name        string
	Address     string
	DeliveryFee float64
	CreatedAt   time.Time
}
