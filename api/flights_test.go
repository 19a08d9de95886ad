package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/repository"
	"github.com/sitfly/seatswap/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, freeText string, params repository.FlightSearch) ([]domain.Flight, error) {
	args := m.Called(ctx, freeText, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.LegacyFlight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LegacyFlight), args.Error(1)
}

func (m *MockFlightUseCase) Suggestions(ctx context.Context, flightID, userID string, limit int) (*match.Result, error) {
	args := m.Called(ctx, flightID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*match.Result), args.Error(1)
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights?q=barcelona", nil)

	found := []domain.Flight{
		{Legacy: &domain.LegacyFlight{ID: "flight-1", FlightNumber: "IB1234"}},
	}
	mockService.On("Search", c.Request.Context(), "barcelona", repository.FlightSearch{}).Return(found, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "IB1234")
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_ExplicitParams(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights?departure_code=MAD&arrival_code=BCN&date=2026-09-10", nil)

	params := repository.FlightSearch{DepartureCode: "MAD", ArrivalCode: "BCN", Date: "2026-09-10"}
	mockService.On("Search", c.Request.Context(), "", params).Return([]domain.Flight{}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := flights.CreateFlightInput{
		FlightNumber: "IB1234",
		Airline:      "Iberia",
		Departure:    domain.Airport{AirportCode: "MAD", City: "Madrid"},
		Arrival:      domain.Airport{AirportCode: "BCN", City: "Barcelona"},
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.LegacyFlight{ID: "flight-1", FlightNumber: "IB1234", Status: domain.FlightStatusUpcoming}
	mockService.On("Create", c.Request.Context(), input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.LegacyFlight
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "flight-1", response.ID)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_NotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	mockService.On("GetByID", c.Request.Context(), "missing").Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestFlightHandler_matching(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/flight-1/matching?user_id=user-a&limit=5", nil)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}

	result := &match.Result{
		Total:       1,
		Suggestions: []match.Suggestion{{MatchScore: 85}},
	}
	mockService.On("Suggestions", c.Request.Context(), "flight-1", "user-a", 5).Return(result, nil)

	handler.matching(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response match.Result
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 1, response.Total)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_matching_MissingUserID(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/flight-1/matching", nil)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}

	handler.matching(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Suggestions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightHandler_matching_NoPreferences(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/flight-1/matching?user_id=user-a", nil)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}

	mockService.On("Suggestions", c.Request.Context(), "flight-1", "user-a", 0).Return(nil, match.ErrNoPreferences)

	handler.matching(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_PREFERENCES")
}

func TestFlightHandler_matching_EngineDownDegrades(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/flight-1/matching?user_id=user-a", nil)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}

	mockService.On("Suggestions", c.Request.Context(), "flight-1", "user-a", 0).
		Return(nil, errors.New("matching engine unreachable"))

	handler.matching(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Suggestions []match.Suggestion `json:"suggestions"`
		Total       int                `json:"total"`
		Reason      string             `json:"reason"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Empty(t, response.Suggestions)
	assert.Equal(t, 0, response.Total)
	assert.NotEmpty(t, response.Reason)
}
