package swap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/kafka"
	"github.com/sitfly/seatswap/internal/repository"
)

type SwapUseCase interface {
	Create(ctx context.Context, input CreateSwapInput) (*domain.SwapRequest, error)
	Accept(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error)
	Reject(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error)
	Get(ctx context.Context, swapID string) (*domain.SwapRequest, error)
	ListForUser(ctx context.Context, userID string, status domain.SwapStatus) ([]domain.SwapRequest, error)
	ListForFlight(ctx context.Context, flightID string) ([]domain.SwapRequest, error)
	ExpireOverdue(ctx context.Context) ([]domain.SwapRequest, error)
}

type Cache interface {
	AcquireSwapLock(ctx context.Context, swapID string, ttl time.Duration) (bool, error)
	ReleaseSwapLock(ctx context.Context, swapID string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Scorer asks the external matching engine for the compatibility score of
// a seat pair. The score is opaque here; it is stored for display only.
type Scorer interface {
	Score(ctx context.Context, flightID, requesterSeatID, partnerSeatID string) (float64, error)
}

type CreateSwapInput struct {
	FlightID        string `json:"flight_id"`
	RequesterSeatID string `json:"requester_seat_id"`
	PartnerSeatID   string `json:"partner_seat_id"`
	CreatedBy       string `json:"created_by"`
}

type SwapService struct {
	swaps              repository.SwapRepository
	seats              repository.SeatRepository
	cache              Cache
	producer           Producer
	scorer             Scorer
	eventsTopic        string
	notificationsTopic string
	expiry             time.Duration
	lockTTL            time.Duration
}

type SwapServiceOption func(*SwapService)

func WithNotificationsTopic(topic string) SwapServiceOption {
	return func(s *SwapService) {
		s.notificationsTopic = topic
	}
}

func WithScorer(scorer Scorer) SwapServiceOption {
	return func(s *SwapService) {
		s.scorer = scorer
	}
}

func NewSwapService(
	swaps repository.SwapRepository,
	seats repository.SeatRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	expiry, lockTTL time.Duration,
	opts ...SwapServiceOption,
) *SwapService {
	service := &SwapService{
		swaps:       swaps,
		seats:       seats,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		expiry:      expiry,
		lockTTL:     lockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *SwapService) Create(ctx context.Context, input CreateSwapInput) (*domain.SwapRequest, error) {
	if input.FlightID == "" || input.RequesterSeatID == "" || input.PartnerSeatID == "" {
		return nil, fmt.Errorf("%w: flight_id, requester_seat_id and partner_seat_id are required", domain.ErrValidation)
	}
	if input.RequesterSeatID == input.PartnerSeatID {
		return nil, fmt.Errorf("%w: cannot swap a seat with itself", domain.ErrValidation)
	}

	requesterSeat, err := s.seats.GetByID(ctx, input.RequesterSeatID)
	if err != nil {
		return nil, err
	}
	partnerSeat, err := s.seats.GetByID(ctx, input.PartnerSeatID)
	if err != nil {
		return nil, err
	}
	if !partnerSeat.OpenToSwap {
		return nil, fmt.Errorf("%w: partner seat is not open to swap", domain.ErrValidation)
	}

	score := 0.0
	if s.scorer != nil {
		score, err = s.scorer.Score(ctx, input.FlightID, input.RequesterSeatID, input.PartnerSeatID)
		if err != nil {
			// The score is display-only, a swap without one is still valid.
			log.Printf("match score unavailable for swap on flight %s: %v", input.FlightID, err)
			score = 0
		}
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = requesterSeat.UserID
	}

	swap := &domain.SwapRequest{
		ID:       uuid.NewString(),
		FlightID: input.FlightID,
		Requester: domain.SwapParticipant{
			UserID:      requesterSeat.UserID,
			CurrentSeat: requesterSeat.SeatNumber,
			SeatID:      requesterSeat.ID,
		},
		Partner: domain.SwapParticipant{
			UserID:      partnerSeat.UserID,
			CurrentSeat: partnerSeat.SeatNumber,
			SeatID:      partnerSeat.ID,
		},
		MatchScore: score,
		Status:     domain.SwapStatusPending,
		CreatedBy:  createdBy,
		ExpiresAt:  time.Now().Add(s.expiry),
	}

	if err := s.swaps.Create(ctx, swap); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "swap_created", swap); err != nil {
		log.Printf("WARNING: failed to publish swap_created event for swap %s: %v", swap.ID, err)
	}
	return swap, nil
}

// Accept records one party's confirmation. When the counterpart has already
// confirmed, the swap completes and the seats exchange owners. A repeat
// accept by the same user is a no-op returning the unchanged swap.
func (s *SwapService) Accept(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error) {
	release, err := s.lock(ctx, swapID)
	if err != nil {
		return nil, err
	}
	defer release()

	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(userID) {
		return nil, domain.ErrForbidden
	}
	if swap.Terminal() {
		return nil, fmt.Errorf("%w: swap is %s", domain.ErrInvalidState, swap.Status)
	}
	if swap.HasConfirmed(userID) {
		return swap, nil
	}

	if swap.IsRequester(userID) {
		swap.RequesterConfirmed = true
	} else {
		swap.PartnerConfirmed = true
	}

	eventType := "swap_accepted"
	if swap.RequesterConfirmed && swap.PartnerConfirmed {
		swap.Status = domain.SwapStatusCompleted
		eventType = "swap_completed"
		if err := s.seats.ExchangeOwners(ctx, swap.Requester.SeatID, swap.Partner.SeatID); err != nil {
			return nil, err
		}
	} else {
		swap.Status = domain.SwapStatusAccepted
	}

	updated, err := s.swaps.Update(ctx, swap)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventType, updated); err != nil {
		log.Printf("WARNING: failed to publish %s event for swap %s: %v", eventType, updated.ID, err)
	}
	return updated, nil
}

// Reject moves the swap to rejected. Either party can do this unilaterally
// from any non-terminal state.
func (s *SwapService) Reject(ctx context.Context, swapID, userID string) (*domain.SwapRequest, error) {
	release, err := s.lock(ctx, swapID)
	if err != nil {
		return nil, err
	}
	defer release()

	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(userID) {
		return nil, domain.ErrForbidden
	}
	if swap.Terminal() {
		return nil, fmt.Errorf("%w: swap is %s", domain.ErrInvalidState, swap.Status)
	}

	swap.Status = domain.SwapStatusRejected
	updated, err := s.swaps.Update(ctx, swap)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "swap_rejected", updated); err != nil {
		log.Printf("WARNING: failed to publish swap_rejected event for swap %s: %v", updated.ID, err)
	}
	return updated, nil
}

func (s *SwapService) Get(ctx context.Context, swapID string) (*domain.SwapRequest, error) {
	return s.swaps.GetByID(ctx, swapID)
}

func (s *SwapService) ListForUser(ctx context.Context, userID string, status domain.SwapStatus) ([]domain.SwapRequest, error) {
	return s.swaps.ListByUser(ctx, userID, status)
}

func (s *SwapService) ListForFlight(ctx context.Context, flightID string) ([]domain.SwapRequest, error) {
	return s.swaps.ListByFlight(ctx, flightID)
}

// ExpireOverdue sweeps pending and accepted swaps past their deadline.
// Expiry is server-side only; clients see it as an incoming status value.
func (s *SwapService) ExpireOverdue(ctx context.Context) ([]domain.SwapRequest, error) {
	expired, err := s.swaps.ExpireBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		if err := s.publish(ctx, "swap_expired", &expired[i]); err != nil {
			log.Printf("WARNING: failed to publish swap_expired event for swap %s: %v", expired[i].ID, err)
		}
	}
	return expired, nil
}

func (s *SwapService) lock(ctx context.Context, swapID string) (func(), error) {
	if s.cache == nil {
		return func() {}, nil
	}
	ok, err := s.cache.AcquireSwapLock(ctx, swapID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: another operation on this swap is in progress", domain.ErrUnavailable)
	}
	return func() { _ = s.cache.ReleaseSwapLock(ctx, swapID) }, nil
}

func (s *SwapService) publish(ctx context.Context, eventType string, swap *domain.SwapRequest) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.SwapEvent{
		Type:        eventType,
		SwapID:      swap.ID,
		FlightID:    swap.FlightID,
		RequesterID: swap.Requester.UserID,
		PartnerID:   swap.Partner.UserID,
		Status:      string(swap.Status),
		MatchScore:  swap.MatchScore,
		ExpiresAt:   swap.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, swap.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, swap.ID, event)
	}
	return nil
}

var _ SwapUseCase = (*SwapService)(nil)
