package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/service/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSwapUseCase is a mock implementation of swap.SwapUseCase
type MockSwapUseCase struct {
	mock.Mock
}

func (m *MockSwapUseCase) Create(ctx context.Context, input swap.CreateSwapInput) (*domain.SwapRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) Accept(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error) {
	args := m.Called(ctx, swapID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) Reject(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error) {
	args := m.Called(ctx, swapID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) Get(ctx context.Context, swapID string) (*domain.SwapRequest, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) ListForUser(ctx context.Context, userID string, status domain.SwapStatus) ([]domain.SwapRequest, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) ListForFlight(ctx context.Context, flightID string) ([]domain.SwapRequest, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.SwapRequest), args.Error(1)
}

func (m *MockSwapUseCase) ExpireOverdue(ctx context.Context) ([]domain.SwapRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SwapRequest), args.Error(1)
}

type swapEnvelope struct {
	Swap swapResponse `json:"swap"`
}

type swapListEnvelope struct {
	Swaps []swapResponse `json:"swaps"`
}

func sampleSwap(status domain.SwapStatus) *domain.SwapRequest {
	return &domain.SwapRequest{
		ID:       "swap-1",
		FlightID: "flight-1",
		Requester: domain.SwapParticipant{
			UserID:      "user-a",
			CurrentSeat: "12A",
			SeatID:      "seat-a",
		},
		Partner: domain.SwapParticipant{
			UserID:      "user-b",
			CurrentSeat: "14C",
			SeatID:      "seat-b",
		},
		MatchScore: 85,
		Status:     status,
		CreatedBy:  "user-a",
		ExpiresAt:  time.Now().Add(48 * time.Hour),
	}
}

func TestSwapHandler_create(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := swap.CreateSwapInput{
		FlightID:        "flight-1",
		RequesterSeatID: "seat-a",
		PartnerSeatID:   "seat-b",
		CreatedBy:       "user-a",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/swaps", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), input).Return(sampleSwap(domain.SwapStatusPending), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response swapEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "swap-1", response.Swap.ID)
	assert.Equal(t, string(domain.SwapStatusPending), response.Swap.Status)
	assert.Equal(t, "excellent", response.Swap.MatchGrade)
	assert.Equal(t, string(domain.SwapBucketActive), response.Swap.Bucket)

	mockService.AssertExpectations(t)
}

func TestSwapHandler_create_InvalidBody(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/swaps", bytes.NewReader([]byte("not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSwapHandler_accept(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(swapActionRequest{UserID: "user-b"})
	c.Request = httptest.NewRequest("POST", "/swaps/swap-1/accept", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "swap-1"}}

	accepted := sampleSwap(domain.SwapStatusAccepted)
	accepted.PartnerConfirmed = true

	mockService.On("Accept", c.Request.Context(), "swap-1", "user-b").Return(accepted, nil)

	handler.accept(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response swapEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.SwapStatusAccepted), response.Swap.Status)
	assert.True(t, response.Swap.PartnerConfirmed)

	mockService.AssertExpectations(t)
}

func TestSwapHandler_accept_MissingUserID(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/swaps/swap-1/accept", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "swap-1"}}

	handler.accept(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
}

func TestSwapHandler_accept_Forbidden(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(swapActionRequest{UserID: "user-intruder"})
	c.Request = httptest.NewRequest("POST", "/swaps/swap-1/accept", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "swap-1"}}

	mockService.On("Accept", c.Request.Context(), "swap-1", "user-intruder").Return(nil, domain.ErrForbidden)

	handler.accept(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestSwapHandler_reject_InvalidState(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(swapActionRequest{UserID: "user-a"})
	c.Request = httptest.NewRequest("POST", "/swaps/swap-1/reject", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "swap-1"}}

	mockService.On("Reject", c.Request.Context(), "swap-1", "user-a").Return(nil, domain.ErrInvalidState)

	handler.reject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestSwapHandler_get_NotFound(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/swaps/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	mockService.On("Get", c.Request.Context(), "missing").Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestSwapHandler_listForUser(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/swaps/user/user-a?status=pending", nil)
	c.Params = gin.Params{{Key: "userId", Value: "user-a"}}

	mockService.On("ListForUser", c.Request.Context(), "user-a", domain.SwapStatusPending).
		Return([]domain.SwapRequest{*sampleSwap(domain.SwapStatusPending)}, nil)

	handler.listForUser(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response swapListEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Swaps, 1)
	assert.Equal(t, "swap-1", response.Swaps[0].ID)

	mockService.AssertExpectations(t)
}

func TestSwapHandler_listForFlight(t *testing.T) {
	mockService := &MockSwapUseCase{}
	handler := NewSwapHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/flight-1/swaps", nil)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}

	mockService.On("ListForFlight", c.Request.Context(), "flight-1").
		Return([]domain.SwapRequest{}, nil)

	handler.listForFlight(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response swapListEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Empty(t, response.Swaps)
}
