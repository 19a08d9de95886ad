package match

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sitfly/seatswap/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClient_Suggestions_SortedBestFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/flight-1/matching", r.URL.Path)
		assert.Equal(t, "user-a", r.URL.Query().Get("user_id"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"suggestions": [
				{"their_seat": "10A", "match_score": 42.5},
				{"their_seat": "11B", "match_score": 88.0}
			],
			"total": 2
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result, err := client.Suggestions(context.Background(), "flight-1", "user-a", 5)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, "11B", result.Suggestions[0].TheirSeat)
	assert.Equal(t, "10A", result.Suggestions[1].TheirSeat)
}

func TestClient_Suggestions_NoPreferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "configure preferences first", "code": "NO_PREFERENCES"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Suggestions(context.Background(), "flight-1", "user-a", 10)

	assert.ErrorIs(t, err, ErrNoPreferences)
}

func TestClient_Suggestions_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Suggestions(context.Background(), "flight-1", "user-a", 10)

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClient_Suggestions_TransportErrorIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.Suggestions(context.Background(), "flight-1", "user-a", 10)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestClient_Score(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/flight-1/score", r.URL.Path)
		assert.Equal(t, "seat-a", r.URL.Query().Get("requester_seat_id"))
		assert.Equal(t, "seat-b", r.URL.Query().Get("partner_seat_id"))
		w.Write([]byte(`{"match_score": 77.5}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	score, err := client.Score(context.Background(), "flight-1", "seat-a", "seat-b")

	assert.NoError(t, err)
	assert.Equal(t, 77.5, score)
}

func TestClient_Score_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Score(context.Background(), "flight-1", "seat-a", "seat-b")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
