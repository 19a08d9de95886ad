// Package client is a typed client for the seatswap HTTP API. It owns the
// client side of the swap lifecycle contract: at most one outstanding
// accept/reject per swap, server responses as the only source of truth for
// confirmation state, and a session-scoped cache for repeated searches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sitfly/seatswap/internal/cache"
	"github.com/sitfly/seatswap/internal/domain"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/repository"
)

// ErrRequestInFlight means an accept/reject for the same swap has not come
// back yet. Callers show the operation as busy instead of re-sending.
var ErrRequestInFlight = errors.New("an operation for this swap is already in flight")

// Session identifies the current user. It is created at login and replaced
// on logout; components receive it explicitly instead of reading a global.
type Session struct {
	UserID string
	Token  string
}

type Client struct {
	baseURL   string
	http      *http.Client
	session   Session
	cache     *cache.SessionCache
	searchTTL time.Duration

	mu       sync.Mutex
	inflight map[string]bool
}

const searchCachePrefix = "flights_"

func New(baseURL string, session Session) *Client {
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		session:   session,
		cache:     cache.NewSessionCache(),
		searchTTL: 5 * time.Minute,
		inflight:  make(map[string]bool),
	}
	_ = c.cache.Set(cache.WellKnownAuthUserKey, session, 0)
	return c
}

// Accept sends this user's confirmation for the swap. The returned value is
// the server's authoritative copy; merge it into any local list with
// domain.ApplySwapUpdate rather than flipping flags locally.
func (c *Client) Accept(ctx context.Context, swapID string) (*domain.SwapRequest, error) {
	return c.mutateSwap(ctx, swapID, "accept")
}

// Reject backs out of the swap. Works unilaterally from any non-terminal
// state.
func (c *Client) Reject(ctx context.Context, swapID string) (*domain.SwapRequest, error) {
	return c.mutateSwap(ctx, swapID, "reject")
}

func (c *Client) mutateSwap(ctx context.Context, swapID, action string) (*domain.SwapRequest, error) {
	if !c.begin(swapID) {
		return nil, ErrRequestInFlight
	}
	defer c.end(swapID)

	body, _ := json.Marshal(map[string]string{"user_id": c.session.UserID})
	endpoint := fmt.Sprintf("%s/swaps/%s/%s", c.baseURL, url.PathEscape(swapID), action)

	var payload struct {
		Swap swapWire `json:"swap"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, body, &payload); err != nil {
		return nil, err
	}

	updated := payload.Swap.toDomain()
	if updated.ID != swapID {
		// A late response for some other swap; never apply it.
		return nil, fmt.Errorf("%w: stale response for swap %s", domain.ErrUnavailable, updated.ID)
	}
	return &updated, nil
}

// CreateSwap proposes an exchange between two seats. Mutation failures are
// surfaced; the caller must not assume the swap was created.
func (c *Client) CreateSwap(ctx context.Context, flightID, requesterSeatID, partnerSeatID string) (*domain.SwapRequest, error) {
	body, _ := json.Marshal(map[string]string{
		"flight_id":         flightID,
		"requester_seat_id": requesterSeatID,
		"partner_seat_id":   partnerSeatID,
	})

	var payload struct {
		Swap swapWire `json:"swap"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/swaps", body, &payload); err != nil {
		return nil, err
	}
	swap := payload.Swap.toDomain()
	return &swap, nil
}

// UserSwaps lists this user's swaps, optionally filtered by status. Read
// failures degrade to an empty list so the page keeps rendering.
func (c *Client) UserSwaps(ctx context.Context, status string) ([]domain.SwapRequest, error) {
	endpoint := fmt.Sprintf("%s/swaps/user/%s", c.baseURL, url.PathEscape(c.session.UserID))
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}

	var payload struct {
		Swaps []swapWire `json:"swaps"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		log.Printf("listing swaps failed, showing none: %v", err)
		return []domain.SwapRequest{}, nil
	}

	swaps := make([]domain.SwapRequest, 0, len(payload.Swaps))
	for _, w := range payload.Swaps {
		swaps = append(swaps, w.toDomain())
	}
	return swaps, nil
}

// SearchFlights runs a flight search, serving repeats of the same search
// from the session cache.
func (c *Client) SearchFlights(ctx context.Context, params repository.FlightSearch) ([]domain.Flight, error) {
	key := searchCacheKey(params)
	var cached []domain.Flight
	if c.cache.Get(key, &cached) {
		return cached, nil
	}

	q := url.Values{}
	if params.FlightNumber != "" {
		q.Set("flight_number", params.FlightNumber)
	}
	if params.DepartureCode != "" {
		q.Set("departure_code", params.DepartureCode)
	}
	if params.ArrivalCode != "" {
		q.Set("arrival_code", params.ArrivalCode)
	}
	if params.Date != "" {
		q.Set("date", params.Date)
	}

	var flights []domain.Flight
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/flights?"+q.Encode(), nil, &flights); err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, flights, c.searchTTL); err != nil {
		log.Printf("failed to cache search results: %v", err)
	}
	return flights, nil
}

// CreateFlight registers a flight and invalidates every cached search,
// since any of them could now be stale.
func (c *Client) CreateFlight(ctx context.Context, input map[string]interface{}) (*domain.LegacyFlight, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	var flight domain.LegacyFlight
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/flights", body, &flight); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix(searchCachePrefix)
	return &flight, nil
}

// Suggestions fetches ranked swap candidates. Transport failures degrade to
// an empty result; ErrNoPreferences passes through for its own message.
func (c *Client) Suggestions(ctx context.Context, flightID string, limit int) (*match.Result, error) {
	q := url.Values{}
	q.Set("user_id", c.session.UserID)
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	endpoint := fmt.Sprintf("%s/flights/%s/matching?%s", c.baseURL, url.PathEscape(flightID), q.Encode())

	var result match.Result
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		if errors.Is(err, match.ErrNoPreferences) {
			return nil, err
		}
		log.Printf("fetching suggestions failed, showing none: %v", err)
		return &match.Result{Suggestions: []match.Suggestion{}}, nil
	}
	return &result, nil
}

// AuthUser reads the stored session record.
func (c *Client) AuthUser() (Session, bool) {
	var s Session
	ok := c.cache.Get(cache.WellKnownAuthUserKey, &s)
	return s, ok
}

// Logout clears all session-scoped state.
func (c *Client) Logout() {
	c.cache.Clear()
	c.session = Session{}
}

func (c *Client) begin(swapID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[swapID] {
		return false
	}
	c.inflight[swapID] = true
	return true
}

func (c *Client) end(swapID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, swapID)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if dest == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(dest)
	}

	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	return mapAPIError(resp.StatusCode, apiErr.Code, apiErr.Error)
}

func mapAPIError(status int, code, message string) error {
	if code == "NO_PREFERENCES" {
		return match.ErrNoPreferences
	}

	var base error
	switch status {
	case http.StatusForbidden:
		base = domain.ErrForbidden
	case http.StatusConflict:
		base = domain.ErrInvalidState
	case http.StatusNotFound:
		base = domain.ErrNotFound
	case http.StatusBadRequest:
		base = domain.ErrValidation
	default:
		base = domain.ErrUnavailable
	}
	if message == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, message)
}

func searchCacheKey(params repository.FlightSearch) string {
	data, err := json.Marshal(params)
	if err != nil {
		return searchCachePrefix + "invalid"
	}
	return searchCachePrefix + string(data)
}
