package dto

// RestaurantResponse describes a merchant in the directory.
type RestaurantResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	DeliveryFee float64 `json:"delivery_fee"`
}
