package flights

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitfly/seatswap/internal/cache"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/repository"
	"github.com/sitfly/seatswap/internal/search"
)

type FlightUseCase interface {
	Search(ctx context.Context, freeText string, params repository.FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.LegacyFlight, error)
	Suggestions(ctx context.Context, flightID, userID string, limit int) (*match.Result, error)
}

type SearchCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

type Matcher interface {
	Suggestions(ctx context.Context, flightID, userID string, limit int) (*match.Result, error)
}

type CreateFlightInput struct {
	FlightNumber string         `json:"flight_number"`
	Airline      string         `json:"airline"`
	Departure    domain.Airport `json:"departure"`
	Arrival      domain.Airport `json:"arrival"`
	CreatedBy    string         `json:"created_by"`
}

type FlightService struct {
	repo            repository.FlightRepository
	cache           SearchCache
	matcher         Matcher
	resolver        *search.Resolver
	cacheTTL        time.Duration
	suggestionLimit int
}

func NewFlightService(
	repo repository.FlightRepository,
	searchCache SearchCache,
	matcher Matcher,
	resolver *search.Resolver,
	cacheTTL time.Duration,
	suggestionLimit int,
) *FlightService {
	return &FlightService{
		repo:            repo,
		cache:           searchCache,
		matcher:         matcher,
		resolver:        resolver,
		cacheTTL:        cacheTTL,
		suggestionLimit: suggestionLimit,
	}
}

// Search runs a flight search. Free-text destination input is resolved to a
// departure/arrival pair first; explicit params win over free text. Results
// are cached under a key derived from the final parameters.
func (s *FlightService) Search(ctx context.Context, freeText string, params repository.FlightSearch) ([]domain.Flight, error) {
	if params.Empty() && strings.TrimSpace(freeText) != "" {
		res, ok := s.resolver.Resolve(freeText)
		if !ok {
			return nil, fmt.Errorf("%w: empty destination query", domain.ErrValidation)
		}
		if res.Confidence == search.ConfidenceFallback {
			log.Printf("destination %q resolved by fallback to %s-%s", freeText, res.Route.Departure, res.Route.Arrival)
		}
		params.DepartureCode = res.Route.Departure
		params.ArrivalCode = res.Route.Arrival
	}

	key := cache.SearchKey(params)
	if s.cache != nil {
		var cached []domain.Flight
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	legacy, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	flights := wrapLegacy(legacy)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, flights, s.cacheTTL); err != nil {
			log.Printf("failed to cache search results: %v", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	legacy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Flight{Legacy: legacy}, nil
}

// Create stores a new flight and drops all cached searches, since any of
// them could now be stale.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.LegacyFlight, error) {
	if input.FlightNumber == "" || input.Departure.AirportCode == "" || input.Arrival.AirportCode == "" {
		return nil, fmt.Errorf("%w: flight_number, departure and arrival are required", domain.ErrValidation)
	}

	flight := &domain.LegacyFlight{
		ID:           uuid.NewString(),
		FlightNumber: strings.ToUpper(input.FlightNumber),
		Airline:      input.Airline,
		Departure:    input.Departure,
		Arrival:      input.Arrival,
		CreatedBy:    input.CreatedBy,
		Status:       domain.FlightStatusUpcoming,
	}
	flight.Departure.AirportCode = strings.ToUpper(flight.Departure.AirportCode)
	flight.Arrival.AirportCode = strings.ToUpper(flight.Arrival.AirportCode)

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, cache.SearchPrefix()); err != nil {
			log.Printf("failed to invalidate search cache: %v", err)
		}
	}
	return flight, nil
}

// Suggestions proxies the external matching engine. Transport failures
// degrade to an empty result so the rest of the page keeps working; the
// no-preferences case is passed through for a distinct user message.
func (s *FlightService) Suggestions(ctx context.Context, flightID, userID string, limit int) (*match.Result, error) {
	if limit <= 0 {
		limit = s.suggestionLimit
	}
	result, err := s.matcher.Suggestions(ctx, flightID, userID, limit)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func wrapLegacy(legacy []domain.LegacyFlight) []domain.Flight {
	flights := make([]domain.Flight, 0, len(legacy))
	for i := range legacy {
		flights = append(flights, domain.Flight{Legacy: &legacy[i]})
	}
	return flights
}

var _ FlightUseCase = (*FlightService)(nil)
