package dto

import "time"

// CheckoutItem is one cart line in a checkout request.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CheckoutRequest carries the confirmed cart snapshot.
type CheckoutRequest struct {
	RestaurantID    int64          `json:"restaurant_id"`
	Items           []CheckoutItem `json:"items"`
	DeliveryAddress string         `json:"delivery_address"`
	PaymentMethod   string         `json:"payment_method"`
}

// CancelRequest carries the customer's cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderItemResponse describes one priced line of an order.
type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// TrackingEntryResponse describes one status change of an order.
type TrackingEntryResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// OrderResponse describes an order with its full tracking history.
type OrderResponse struct {
	ID                    string                  `json:"id"`
	RestaurantID          int64                   `json:"restaurant_id"`
	RestaurantName        string                  `json:"restaurant_name"`
	Items                 []OrderItemResponse     `json:"items"`
	DeliveryAddress       string                  `json:"delivery_address"`
	PaymentMethod         string                  `json:"payment_method"`
	Subtotal              float64                 `json:"subtotal"`
	DeliveryFee           float64                 `json:"delivery_fee"`
	Tax                   float64                 `json:"tax"`
	Total                 float64                 `json:"total"`
	Status                string                  `json:"status"`
	TrackingHistory       []TrackingEntryResponse `json:"tracking_history"`
	CreatedAt             time.Time               `json:"created_at"`
	EstimatedDeliveryTime time.Time               `json:"estimated_delivery_time"`
}
