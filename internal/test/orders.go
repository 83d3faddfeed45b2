package test

import (
	"time"

	"github.com/entregago/entrega/internal/domain/model"
)

// NewOrder builds a valid order fixture and walks it into the requested
// status. Pending payment fixtures pay by card, everything else by cash.
func NewOrder(status model.OrderStatus) *model.Order {
	method := model.PaymentMethodCash
	if status == model.OrderStatusPendingPayment {
		method = model.PaymentMethodCard
	}
	now := time.Now()
	order, err := model.NewOrder(model.NewOrderInput{
		ID:             "order-" + RandomASCIIString(8, 8),
		CustomerID:     1,
		RestaurantID:   1,
		RestaurantName: "Pizza Palace",
		Items: []model.OrderItem{
			{ProductID: "p1", Name: "Pizza Margherita", Quantity: 1, UnitPrice: 18.99},
		},
		DeliveryAddress: "Av. Siempre Viva 742",
		PaymentMethod:   method,
		DeliveryFee:     2.5,
		TaxRate:         0.1,
		DeliveryWindow:  45 * time.Minute,
	}, now)
	if err != nil {
		panic(err)
	}
	for order.Status != status {
		if status == model.OrderStatusCancelled {
			if err := order.Cancel("test", now); err != nil {
				panic(err)
			}
			break
		}
		if err := order.Advance(now); err != nil {
			panic(err)
		}
	}
	return order
}
