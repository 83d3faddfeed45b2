package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/server/http/dto"
	"github.com/entregago/entrega/internal/server/http/middleware"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/user/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), userID, model.CheckoutInput{
		RestaurantID:    req.RestaurantID,
		Items:           items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		middleware.ObserveOrderOperation("create", "error")
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrPaymentRequired):
			c.Status(http.StatusPaymentRequired)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.ObserveOrderOperation("create", "ok")
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/user/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	order, err := h.facade.Order(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/user/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		middleware.ObserveOrderOperation("cancel", "error")
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.ObserveOrderOperation("cancel", "ok")
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Advance handles POST /api/orders/:id/advance. Fulfillment progression is
// driven by operator action, never by timers inside the model.
func (h *OrderHandler) Advance(c *gin.Context) {
	order, err := h.facade.AdvanceOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.ObserveOrderOperation("advance", "error")
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.ObserveOrderOperation("advance", "ok")
	c.JSON(http.StatusOK, toOrderResponse(*order))
}
