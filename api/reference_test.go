package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReferenceAdmin struct {
	mock.Mock
}

func (m *MockReferenceAdmin) Ready() bool {
	return m.Called().Bool(0)
}

func (m *MockReferenceAdmin) Err() error {
	return m.Called().Error(0)
}

func (m *MockReferenceAdmin) Rehydrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReferenceAdmin) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestReferenceHandler_refresh(t *testing.T) {
	mockService := &MockReferenceAdmin{}
	handler := NewReferenceHandler(mockService)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/reference/refresh", nil)

	mockService.On("Rehydrate", mock.Anything).Return(nil).Once()
	mockService.On("Ready").Return(true)
	mockService.On("Err").Return(nil)

	handler.refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response referenceStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Ready)
	assert.Nil(t, response.Error)
	mockService.AssertExpectations(t)
}

func TestReferenceHandler_refresh_Failure(t *testing.T) {
	mockService := &MockReferenceAdmin{}
	handler := NewReferenceHandler(mockService)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/reference/refresh", nil)

	mockService.On("Rehydrate", mock.Anything).Return(&domain.TransportError{Op: "cities", StatusCode: 503}).Once()

	handler.refresh(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	mockService.AssertExpectations(t)
}

func TestReferenceHandler_invalidate(t *testing.T) {
	mockService := &MockReferenceAdmin{}
	handler := NewReferenceHandler(mockService)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/api/v1/reference/cache", nil)

	mockService.On("Invalidate", mock.Anything).Return(nil).Once()
	mockService.On("Ready").Return(false)
	mockService.On("Err").Return(assert.AnError)

	handler.invalidate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response referenceStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	mockService.AssertExpectations(t)
}
