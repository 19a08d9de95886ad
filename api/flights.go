package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/repository"
	"github.com/sitfly/seatswap/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.search)
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.GET("/:id/matching", h.matching)
}

// search accepts either explicit parameters (flight_number or
// departure_code/arrival_code/date) or a free-text destination in q.
func (h *FlightHandler) search(c *gin.Context) {
	params := repository.FlightSearch{
		FlightNumber:  c.Query("flight_number"),
		DepartureCode: c.Query("departure_code"),
		ArrivalCode:   c.Query("arrival_code"),
		Date:          c.Query("date"),
	}

	result, err := h.service.Search(c.Request.Context(), c.Query("q"), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.CreateFlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// matching returns ranked swap suggestions. A transport failure towards the
// matching engine degrades to an empty result so the page keeps working;
// the no-preferences case keeps its distinguished code for a different
// user-facing message.
func (h *FlightHandler) matching(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required", "code": "VALIDATION"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.service.Suggestions(c.Request.Context(), c.Param("id"), userID, limit)
	if err != nil {
		if errors.Is(err, match.ErrNoPreferences) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "NO_PREFERENCES"})
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"suggestions": []match.Suggestion{},
			"total":       0,
			"reason":      err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
