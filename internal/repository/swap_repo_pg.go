package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sitfly/seatswap/internal/domain"
)

type SwapRepository interface {
	Create(ctx context.Context, swap *domain.SwapRequest) error
	GetByID(ctx context.Context, id string) (*domain.SwapRequest, error)
	Update(ctx context.Context, swap *domain.SwapRequest) (*domain.SwapRequest, error)
	ListByUser(ctx context.Context, userID string, status domain.SwapStatus) ([]domain.SwapRequest, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.SwapRequest, error)
	ExpireBefore(ctx context.Context, deadline time.Time) ([]domain.SwapRequest, error)
}

type PGSwapRepository struct {
	db *pgxpool.Pool
}

func NewSwapRepository(db *pgxpool.Pool) SwapRepository {
	return &PGSwapRepository{db: db}
}

const swapColumns = `id, flight_id, requester_user_id, requester_seat, requester_seat_id,
	partner_user_id, partner_seat, partner_seat_id, match_score, status, created_by,
	requester_confirmed, partner_confirmed, expires_at, created_at, updated_at`

func (r *PGSwapRepository) Create(ctx context.Context, swap *domain.SwapRequest) error {
	return r.db.QueryRow(ctx, `INSERT INTO swap_requests (id, flight_id, requester_user_id, requester_seat,
		requester_seat_id, partner_user_id, partner_seat, partner_seat_id, match_score, status, created_by,
		requester_confirmed, partner_confirmed, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		swap.ID, swap.FlightID, swap.Requester.UserID, swap.Requester.CurrentSeat, swap.Requester.SeatID,
		swap.Partner.UserID, swap.Partner.CurrentSeat, swap.Partner.SeatID, swap.MatchScore, swap.Status,
		swap.CreatedBy, swap.RequesterConfirmed, swap.PartnerConfirmed, swap.ExpiresAt).
		Scan(&swap.CreatedAt, &swap.UpdatedAt)
}

func (r *PGSwapRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id=$1`, id)
	return scanSwap(row)
}

func (r *PGSwapRepository) Update(ctx context.Context, swap *domain.SwapRequest) (*domain.SwapRequest, error) {
	row := r.db.QueryRow(ctx, `UPDATE swap_requests
		SET status=$1, requester_confirmed=$2, partner_confirmed=$3, updated_at=now()
		WHERE id=$4
		RETURNING `+swapColumns, swap.Status, swap.RequesterConfirmed, swap.PartnerConfirmed, swap.ID)
	return scanSwap(row)
}

func (r *PGSwapRepository) ListByUser(ctx context.Context, userID string, status domain.SwapStatus) ([]domain.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests
		WHERE (requester_user_id=$1 OR partner_user_id=$1)`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSwaps(rows)
}

func (r *PGSwapRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.SwapRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE flight_id=$1 ORDER BY created_at DESC`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSwaps(rows)
}

func (r *PGSwapRepository) ExpireBefore(ctx context.Context, deadline time.Time) ([]domain.SwapRequest, error) {
	rows, err := r.db.Query(ctx, `UPDATE swap_requests SET status=$1, updated_at=now()
		WHERE status = ANY($2) AND expires_at <= $3
		RETURNING `+swapColumns,
		domain.SwapStatusExpired, []string{string(domain.SwapStatusPending), string(domain.SwapStatusAccepted)}, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSwaps(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSwap(row rowScanner) (*domain.SwapRequest, error) {
	var s domain.SwapRequest
	if err := row.Scan(&s.ID, &s.FlightID, &s.Requester.UserID, &s.Requester.CurrentSeat, &s.Requester.SeatID,
		&s.Partner.UserID, &s.Partner.CurrentSeat, &s.Partner.SeatID, &s.MatchScore, &s.Status, &s.CreatedBy,
		&s.RequesterConfirmed, &s.PartnerConfirmed, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanSwaps(rows pgx.Rows) ([]domain.SwapRequest, error) {
	swaps := make([]domain.SwapRequest, 0)
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, *s)
	}
	return swaps, rows.Err()
}

var _ SwapRepository = (*PGSwapRepository)(nil)
