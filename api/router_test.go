package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/service/compare"
	"github.com/Domenick1991/flightcart/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := logrus.New()
	l.SetOutput(io.Discard)

	mockFlights := &MockFlightUseCase{}
	mockCart := &MockCartUseCase{}
	mockRefs := &MockReferenceAdmin{}
	router := NewRouter(l,
		NewFlightHandler(mockFlights, mockRefs),
		NewCartHandler(mockCart, mockFlights),
		NewCompareHandler(compare.NewCompareService(flightList{}), mockFlights),
		NewReferenceHandler(mockRefs),
	)

	mockFlights.On("Snapshot").Return(flights.Snapshot{Flights: []domain.Flight{}})
	mockFlights.On("Find", mock.Anything).Return(domain.Flight{}, false)
	mockRefs.On("Ready").Return(true)
	mockRefs.On("Err").Return(nil)
	mockCart.On("Items").Return([]domain.CartItem{})
	mockCart.On("Total").Return(domain.Money{Currency: "EUR"})

	testCases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/flights", http.StatusOK},
		{http.MethodGet, "/api/v1/cart", http.StatusOK},
		{http.MethodPost, "/api/v1/cart/items/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/compare", http.StatusOK},
		{http.MethodDelete, "/api/v1/compare", http.StatusOK},
		{http.MethodGet, "/api/v1/reference", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tc := range testCases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}
