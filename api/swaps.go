package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/service/swap"
)

type SwapHandler struct {
	service swap.SwapUseCase
}

type createSwapRequest struct {
	FlightID        string `json:"flight_id"`
	RequesterSeatID string `json:"requester_seat_id"`
	PartnerSeatID   string `json:"partner_seat_id"`
	CreatedBy       string `json:"created_by"`
}

type swapActionRequest struct {
	UserID string `json:"user_id"`
}

type participantResponse struct {
	UserID      string `json:"user_id"`
	CurrentSeat string `json:"current_seat"`
	SeatID      string `json:"seat_id"`
}

type swapResponse struct {
	ID                 string              `json:"id"`
	FlightID           string              `json:"flight_id"`
	Requester          participantResponse `json:"requester"`
	Partner            participantResponse `json:"partner"`
	MatchScore         float64             `json:"match_score"`
	MatchGrade         string              `json:"match_grade"`
	Status             string              `json:"status"`
	Bucket             string              `json:"bucket"`
	CreatedBy          string              `json:"created_by"`
	RequesterConfirmed bool                `json:"requester_confirmed"`
	PartnerConfirmed   bool                `json:"partner_confirmed"`
	ExpiresAt          string              `json:"expires_at"`
	CreatedAt          string              `json:"created_at"`
	UpdatedAt          string              `json:"updated_at"`
}

func NewSwapHandler(service swap.SwapUseCase) *SwapHandler {
	return &SwapHandler{service: service}
}

func (h *SwapHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/accept", h.accept)
	router.POST("/:id/reject", h.reject)
	router.GET("/user/:userId", h.listForUser)
}

// RegisterFlightRoutes adds the per-flight swap listing under the flights
// group.
func (h *SwapHandler) RegisterFlightRoutes(router *gin.RouterGroup) {
	router.GET("/:id/swaps", h.listForFlight)
}

func (h *SwapHandler) create(c *gin.Context) {
	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), swap.CreateSwapInput{
		FlightID:        req.FlightID,
		RequesterSeatID: req.RequesterSeatID,
		PartnerSeatID:   req.PartnerSeatID,
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"swap": toSwapResponse(created)})
}

func (h *SwapHandler) get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swap": toSwapResponse(found)})
}

func (h *SwapHandler) accept(c *gin.Context) {
	h.act(c, h.service.Accept)
}

func (h *SwapHandler) reject(c *gin.Context) {
	h.act(c, h.service.Reject)
}

func (h *SwapHandler) act(c *gin.Context, op func(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error)) {
	var req swapActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required", "code": "VALIDATION"})
		return
	}

	updated, err := op(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swap": toSwapResponse(updated)})
}

func (h *SwapHandler) listForUser(c *gin.Context) {
	status := domain.SwapStatus(c.Query("status"))
	swaps, err := h.service.ListForUser(c.Request.Context(), c.Param("userId"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": toSwapResponses(swaps)})
}

func (h *SwapHandler) listForFlight(c *gin.Context) {
	swaps, err := h.service.ListForFlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": toSwapResponses(swaps)})
}

func toSwapResponse(s *domain.SwapRequest) swapResponse {
	return swapResponse{
		ID:       s.ID,
		FlightID: s.FlightID,
		Requester: participantResponse{
			UserID:      s.Requester.UserID,
			CurrentSeat: s.Requester.CurrentSeat,
			SeatID:      s.Requester.SeatID,
		},
		Partner: participantResponse{
			UserID:      s.Partner.UserID,
			CurrentSeat: s.Partner.CurrentSeat,
			SeatID:      s.Partner.SeatID,
		},
		MatchScore:         s.MatchScore,
		MatchGrade:         string(match.GradeScore(s.MatchScore)),
		Status:             string(s.Status),
		Bucket:             string(s.Bucket()),
		CreatedBy:          s.CreatedBy,
		RequesterConfirmed: s.RequesterConfirmed,
		PartnerConfirmed:   s.PartnerConfirmed,
		ExpiresAt:          s.ExpiresAt.Format(time.RFC3339),
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}

func toSwapResponses(swaps []domain.SwapRequest) []swapResponse {
	out := make([]swapResponse, 0, len(swaps))
	for i := range swaps {
		out = append(out, toSwapResponse(&swaps[i]))
	}
	return out
}
