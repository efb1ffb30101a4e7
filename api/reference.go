package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReferenceAdmin refreshes or drops the cached city and airline names.
type ReferenceAdmin interface {
	Ready() bool
	Err() error
	Rehydrate(ctx context.Context) error
	Invalidate(ctx context.Context) error
}

type ReferenceHandler struct {
	service ReferenceAdmin
}

type referenceStatus struct {
	Ready bool    `json:"ready"`
	Error *string `json:"error"`
}

func NewReferenceHandler(service ReferenceAdmin) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.status)
	router.POST("/refresh", h.refresh)
	router.DELETE("/cache", h.invalidate)
}

func (h *ReferenceHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

func (h *ReferenceHandler) refresh(c *gin.Context) {
	if err := h.service.Rehydrate(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

func (h *ReferenceHandler) invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

func (h *ReferenceHandler) state() referenceStatus {
	st := referenceStatus{Ready: h.service.Ready()}
	if err := h.service.Err(); err != nil {
		msg := err.Error()
		st.Error = &msg
	}
	return st
}
