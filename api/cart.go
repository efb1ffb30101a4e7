package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/service/cart"
	"github.com/Domenick1991/flightcart/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service cart.CartUseCase
	flights flights.FlightUseCase
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total domain.Money      `json:"total"`
}

type checkoutRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type checkoutResponse struct {
	Redirect string `json:"redirect"`
}

func NewCartHandler(service cart.CartUseCase, flights flights.FlightUseCase) *CartHandler {
	return &CartHandler{service: service, flights: flights}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.get)
	router.POST("/items/:id", h.add)
	router.DELETE("/items/:id", h.remove)
	router.POST("/checkout", h.checkout)
}

func (h *CartHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart())
}

func (h *CartHandler) add(c *gin.Context) {
	id, ok := flightIDParam(c)
	if !ok {
		return
	}
	if _, found := h.flights.Find(id); !found {
		writeError(c, fmt.Errorf("flight %s: %w", id, domain.ErrNotFound))
		return
	}
	h.service.Add(id)
	c.JSON(http.StatusOK, h.cart())
}

func (h *CartHandler) remove(c *gin.Context) {
	id, ok := flightIDParam(c)
	if !ok {
		return
	}
	h.service.Remove(id)
	c.JSON(http.StatusOK, h.cart())
}

func (h *CartHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Checkout(c.Request.Context(), req.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{Redirect: cart.ConfirmationView})
}

func (h *CartHandler) cart() cartResponse {
	return cartResponse{Items: h.service.Items(), Total: h.service.Total()}
}
