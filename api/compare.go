package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/service/compare"
	"github.com/Domenick1991/flightcart/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type CompareHandler struct {
	service compare.CompareUseCase
	flights flights.FlightUseCase
}

func NewCompareHandler(service compare.CompareUseCase, flights flights.FlightUseCase) *CompareHandler {
	return &CompareHandler{service: service, flights: flights}
}

func (h *CompareHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/:id", h.add)
	router.DELETE("/:id", h.remove)
	router.DELETE("", h.clear)
}

func (h *CompareHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flights": h.service.Items()})
}

func (h *CompareHandler) add(c *gin.Context) {
	id, ok := flightIDParam(c)
	if !ok {
		return
	}
	if _, found := h.flights.Find(id); !found {
		writeError(c, fmt.Errorf("flight %s: %w", id, domain.ErrNotFound))
		return
	}
	h.service.Add(id)
	c.JSON(http.StatusOK, gin.H{"flights": h.service.Items()})
}

func (h *CompareHandler) remove(c *gin.Context) {
	id, ok := flightIDParam(c)
	if !ok {
		return
	}
	h.service.Remove(id)
	c.JSON(http.StatusOK, gin.H{"flights": h.service.Items()})
}

func (h *CompareHandler) clear(c *gin.Context) {
	h.service.Clear()
	c.JSON(http.StatusOK, gin.H{"flights": []domain.Flight{}})
}
