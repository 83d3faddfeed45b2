package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
	"github.com/entregago/entrega/internal/server/http/dto"
)

// RestaurantHandler serves the merchant directory.
type RestaurantHandler struct {
	facade RestaurantFacade
}

// NewRestaurantHandler constructs RestaurantHandler.
func NewRestaurantHandler(facade RestaurantFacade) *RestaurantHandler {
	return &RestaurantHandler{facade: facade}
}

// List handles GET /api/restaurants.
func (h *RestaurantHandler) List(c *gin.Context) {
	restaurants, err := h.facade.Restaurants(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.RestaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		response = append(response, toRestaurantResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/restaurants/:id.
func (h *RestaurantHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	restaurant, err := h.facade.Restaurant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toRestaurantResponse(*restaurant))
}
