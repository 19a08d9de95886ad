package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sitfly/seatswap/internal/domain"
)

// ErrNoPreferences means the user has no seat preferences configured yet,
// so the matching collaborator cannot rank candidates. The API surfaces
// this with a distinguished code so the front-end can change its message.
var ErrNoPreferences = errors.New("seat preferences are not configured")

type PartnerReputation struct {
	Rating              float64 `json:"rating"`
	TotalSwaps          int     `json:"total_swaps"`
	CompletedSwaps      int     `json:"completed_swaps"`
	PercentageCompleted float64 `json:"percentage_completed"`
}

type PartnerUser struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Reputation PartnerReputation `json:"reputation"`
}

type Suggestion struct {
	PartnerSeat domain.Seat `json:"partner_seat"`
	PartnerUser PartnerUser `json:"partner_user"`
	MatchScore  float64     `json:"match_score"`
	YourSeat    string      `json:"your_seat"`
	TheirSeat   string      `json:"their_seat"`
}

type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Total       int          `json:"total"`
	YourSeat    domain.Seat  `json:"your_seat"`
}

// Client calls the external matching engine. Scoring happens entirely on
// the collaborator side; this client only transports results.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Suggestions fetches ranked swap candidates for a user on a flight and
// returns them sorted best-first.
func (c *Client) Suggestions(ctx context.Context, flightID, userID string, limit int) (*Result, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/flights/%s/matching?%s", c.baseURL, url.PathEscape(flightID), q.Encode())

	var result Result
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	SortSuggestions(result.Suggestions)
	return &result, nil
}

// Score asks the collaborator for the compatibility score of a concrete
// seat pair, used when a swap request is created.
func (c *Client) Score(ctx context.Context, flightID, requesterSeatID, partnerSeatID string) (float64, error) {
	q := url.Values{}
	q.Set("requester_seat_id", requesterSeatID)
	q.Set("partner_seat_id", partnerSeatID)
	endpoint := fmt.Sprintf("%s/flights/%s/score?%s", c.baseURL, url.PathEscape(flightID), q.Encode())

	var payload struct {
		MatchScore float64 `json:"match_score"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, err
	}
	return payload.MatchScore, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(dest)
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: matching engine returned %d", domain.ErrUnavailable, resp.StatusCode)
	default:
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Code == "NO_PREFERENCES" {
			return ErrNoPreferences
		}
		return fmt.Errorf("%w: matching engine returned %d", domain.ErrValidation, resp.StatusCode)
	}
}
