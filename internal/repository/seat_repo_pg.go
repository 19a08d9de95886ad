package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sitfly/seatswap/internal/domain"
)

type SeatRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Seat, error)
	GetUserSeatForFlight(ctx context.Context, userID, flightID string) (*domain.Seat, error)
	ListOpenForFlight(ctx context.Context, flightID string) ([]domain.Seat, error)
	ExchangeOwners(ctx context.Context, seatIDA, seatIDB string) error
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

const seatColumns = `id, flight_id, user_id, seat_number, details, open_to_swap, created_at, updated_at`

func (r *PGSeatRepository) GetByID(ctx context.Context, id string) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id=$1`, id)
	return scanSeat(row)
}

func (r *PGSeatRepository) GetUserSeatForFlight(ctx context.Context, userID, flightID string) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE user_id=$1 AND flight_id=$2`, userID, flightID)
	return scanSeat(row)
}

func (r *PGSeatRepository) ListOpenForFlight(ctx context.Context, flightID string) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT `+seatColumns+` FROM seats WHERE flight_id=$1 AND open_to_swap ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *s)
	}
	return seats, rows.Err()
}

// ExchangeOwners swaps the user_id of two seats in one transaction. Called
// when a swap request completes.
func (r *PGSeatRepository) ExchangeOwners(ctx context.Context, seatIDA, seatIDB string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var ownerA, ownerB string
	if err := tx.QueryRow(ctx, `SELECT user_id FROM seats WHERE id=$1 FOR UPDATE`, seatIDA).Scan(&ownerA); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := tx.QueryRow(ctx, `SELECT user_id FROM seats WHERE id=$1 FOR UPDATE`, seatIDB).Scan(&ownerB); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE seats SET user_id=$1, updated_at=now() WHERE id=$2`, ownerB, seatIDA); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE seats SET user_id=$1, updated_at=now() WHERE id=$2`, ownerA, seatIDB); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanSeat(row rowScanner) (*domain.Seat, error) {
	var s domain.Seat
	var details []byte
	if err := row.Scan(&s.ID, &s.FlightID, &s.UserID, &s.SeatNumber, &details, &s.OpenToSwap, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(details, &s.Details); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ SeatRepository = (*PGSeatRepository)(nil)
