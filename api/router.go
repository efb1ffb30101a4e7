package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts every handler under /api/v1.
func NewRouter(log logrus.FieldLogger, flightsH *FlightHandler, cartH *CartHandler, compareH *CompareHandler, referenceH *ReferenceHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	v1 := router.Group("/api/v1")
	flightsH.Register(v1.Group("/flights"))
	cartH.Register(v1.Group("/cart"))
	compareH.Register(v1.Group("/compare"))
	referenceH.Register(v1.Group("/reference"))
	return router
}
