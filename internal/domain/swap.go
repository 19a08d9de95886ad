package domain

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusExpired   SwapStatus = "expired"
)

// SwapBucket is the read-side display classification of a swap. It never
// feeds back into the state machine.
type SwapBucket string

const (
	SwapBucketActive SwapBucket = "active"
	SwapBucketDone   SwapBucket = "done"
	SwapBucketClosed SwapBucket = "closed"
)

type SwapParticipant struct {
	UserID      string
	CurrentSeat string
	SeatID      string
}

type SwapRequest struct {
	ID                 string
	FlightID           string
	Requester          SwapParticipant
	Partner            SwapParticipant
	MatchScore         float64
	Status             SwapStatus
	CreatedBy          string
	RequesterConfirmed bool
	PartnerConfirmed   bool
	ExpiresAt          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *SwapRequest) IsRequester(userID string) bool {
	return s.Requester.UserID == userID
}

func (s *SwapRequest) IsPartner(userID string) bool {
	return s.Partner.UserID == userID
}

func (s *SwapRequest) IsParticipant(userID string) bool {
	return s.IsRequester(userID) || s.IsPartner(userID)
}

// HasConfirmed reports whether the given user already confirmed the swap.
// Returns false for users that are not a party to it.
func (s *SwapRequest) HasConfirmed(userID string) bool {
	switch {
	case s.IsRequester(userID):
		return s.RequesterConfirmed
	case s.IsPartner(userID):
		return s.PartnerConfirmed
	default:
		return false
	}
}

// NeedsAction reports whether the swap is waiting on the given user's
// confirmation.
func (s *SwapRequest) NeedsAction(userID string) bool {
	if s.Status != SwapStatusPending && s.Status != SwapStatusAccepted {
		return false
	}
	return s.IsParticipant(userID) && !s.HasConfirmed(userID)
}

// Terminal reports whether the swap reached a state that admits no further
// accept or reject.
func (s *SwapRequest) Terminal() bool {
	switch s.Status {
	case SwapStatusCompleted, SwapStatusRejected, SwapStatusExpired:
		return true
	}
	return false
}

func (s *SwapRequest) Bucket() SwapBucket {
	switch s.Status {
	case SwapStatusPending, SwapStatusAccepted:
		return SwapBucketActive
	case SwapStatusCompleted:
		return SwapBucketDone
	default:
		return SwapBucketClosed
	}
}

// ApplySwapUpdate returns a copy of list with the entry matching updated.ID
// replaced by updated. The input slice is never mutated. If no entry matches,
// the list is returned unchanged; a server response for a swap we no longer
// hold is stale and gets dropped.
func ApplySwapUpdate(list []SwapRequest, updated SwapRequest) []SwapRequest {
	out := make([]SwapRequest, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			break
		}
	}
	return out
}
