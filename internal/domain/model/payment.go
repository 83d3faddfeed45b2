package model

// PaymentState describes the gateway's view of an order's payment.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStateApproved PaymentState = "approved"
	PaymentStateRejected PaymentState = "rejected"
)

// PaymentResolution is the gateway's answer for a single order.
type PaymentResolution struct {
	OrderID string
	State   PaymentState
	Reason  string
}
