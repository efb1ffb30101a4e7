package api

import (
	"net/http"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// ReadyChecker reports whether reference data has been hydrated.
type ReadyChecker interface {
	Ready() bool
}

type FlightHandler struct {
	service flights.FlightUseCase
	refs    ReadyChecker
}

type searchRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination"`
	ReturnDate  string `json:"return_date"`
}

type flightsResponse struct {
	Flights      []domain.Flight `json:"flights"`
	Loading      bool            `json:"loading"`
	Error        *string         `json:"error"`
	IsDataLoaded bool            `json:"isDataLoaded"`
	Version      uint64          `json:"version"`
}

func NewFlightHandler(service flights.FlightUseCase, refs ReadyChecker) *FlightHandler {
	return &FlightHandler{service: service, refs: refs}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/search", h.search)
}

func (h *FlightHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.FetchCheapest(c.Request.Context(), flights.Params{
		Origin:      req.Origin,
		Destination: req.Destination,
		ReturnDate:  req.ReturnDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

func (h *FlightHandler) state() flightsResponse {
	snap := h.service.Snapshot()
	resp := flightsResponse{
		Flights:      snap.Flights,
		Loading:      snap.Loading,
		IsDataLoaded: h.refs.Ready(),
		Version:      snap.Version,
	}
	if snap.Err != nil {
		msg := snap.Err.Error()
		resp.Error = &msg
	}
	return resp
}
