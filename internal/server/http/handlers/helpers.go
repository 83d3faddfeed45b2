package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/server/http/dto"
	"github.com/entregago/entrega/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	history := make([]dto.TrackingEntryResponse, 0, len(order.TrackingHistory))
	for _, entry := range order.TrackingHistory {
		history = append(history, dto.TrackingEntryResponse{
			Status:      string(entry.Status),
			Timestamp:   entry.Timestamp,
			Description: entry.Description,
		})
	}

	return dto.OrderResponse{
		ID:                    order.ID,
		RestaurantID:          order.RestaurantID,
		RestaurantName:        order.RestaurantName,
		Items:                 items,
		DeliveryAddress:       order.DeliveryAddress,
		PaymentMethod:         string(order.PaymentMethod),
		Subtotal:              order.Subtotal,
		DeliveryFee:           order.DeliveryFee,
		Tax:                   order.Tax,
		Total:                 order.Total,
		Status:                string(order.Status),
		TrackingHistory:       history,
		CreatedAt:             order.CreatedAt,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
	}
}

func toRestaurantResponse(restaurant model.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Address:     restaurant.Address,
		DeliveryFee: restaurant.DeliveryFee,
	}
}
