package client

import (
	"time"

	"github.com/sitfly/seatswap/internal/domain"
)

// swapWire mirrors the API's swap payload.
type swapWire struct {
	ID                 string          `json:"id"`
	FlightID           string          `json:"flight_id"`
	Requester          participantWire `json:"requester"`
	Partner            participantWire `json:"partner"`
	MatchScore         float64         `json:"match_score"`
	Status             string          `json:"status"`
	CreatedBy          string          `json:"created_by"`
	RequesterConfirmed bool            `json:"requester_confirmed"`
	PartnerConfirmed   bool            `json:"partner_confirmed"`
	ExpiresAt          string          `json:"expires_at"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

type participantWire struct {
	UserID      string `json:"user_id"`
	CurrentSeat string `json:"current_seat"`
	SeatID      string `json:"seat_id"`
}

func (w swapWire) toDomain() domain.SwapRequest {
	return domain.SwapRequest{
		ID:       w.ID,
		FlightID: w.FlightID,
		Requester: domain.SwapParticipant{
			UserID:      w.Requester.UserID,
			CurrentSeat: w.Requester.CurrentSeat,
			SeatID:      w.Requester.SeatID,
		},
		Partner: domain.SwapParticipant{
			UserID:      w.Partner.UserID,
			CurrentSeat: w.Partner.CurrentSeat,
			SeatID:      w.Partner.SeatID,
		},
		MatchScore:         w.MatchScore,
		Status:             domain.SwapStatus(w.Status),
		CreatedBy:          w.CreatedBy,
		RequesterConfirmed: w.RequesterConfirmed,
		PartnerConfirmed:   w.PartnerConfirmed,
		ExpiresAt:          parseWireTime(w.ExpiresAt),
		CreatedAt:          parseWireTime(w.CreatedAt),
		UpdatedAt:          parseWireTime(w.UpdatedAt),
	}
}

func parseWireTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
