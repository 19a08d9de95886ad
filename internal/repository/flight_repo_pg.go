package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sitfly/seatswap/internal/domain"
)

// FlightSearch holds the concrete search parameters after free-text
// destination input has been resolved.
type FlightSearch struct {
	FlightNumber  string `json:"flight_number,omitempty"`
	DepartureCode string `json:"departure_code,omitempty"`
	ArrivalCode   string `json:"arrival_code,omitempty"`
	Date          string `json:"date,omitempty"`
}

func (s FlightSearch) Empty() bool {
	return s.FlightNumber == "" && s.DepartureCode == "" && s.ArrivalCode == "" && s.Date == ""
}

type FlightRepository interface {
	Search(ctx context.Context, params FlightSearch) ([]domain.LegacyFlight, error)
	GetByID(ctx context.Context, id string) (*domain.LegacyFlight, error)
	Create(ctx context.Context, flight *domain.LegacyFlight) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure, arrival, created_by, status, created_at, updated_at`

func (r *PGFlightRepository) Search(ctx context.Context, params FlightSearch) ([]domain.LegacyFlight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if params.FlightNumber != "" {
		args = append(args, params.FlightNumber)
		query += fmt.Sprintf(` AND flight_number=$%d`, len(args))
	}
	if params.DepartureCode != "" {
		args = append(args, params.DepartureCode)
		query += fmt.Sprintf(` AND departure->>'airport_code'=$%d`, len(args))
	}
	if params.ArrivalCode != "" {
		args = append(args, params.ArrivalCode)
		query += fmt.Sprintf(` AND arrival->>'airport_code'=$%d`, len(args))
	}
	if params.Date != "" {
		args = append(args, params.Date)
		query += fmt.Sprintf(` AND departure->>'date'=$%d`, len(args))
	}
	query += ` ORDER BY departure->>'date', departure->>'time'`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.LegacyFlight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.LegacyFlight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.LegacyFlight) error {
	departure, err := json.Marshal(flight.Departure)
	if err != nil {
		return err
	}
	arrival, err := json.Marshal(flight.Arrival)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, `INSERT INTO flights (id, flight_number, airline, departure, arrival, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		flight.ID, flight.FlightNumber, flight.Airline, departure, arrival, flight.CreatedBy, flight.Status).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

func scanFlight(row rowScanner) (*domain.LegacyFlight, error) {
	var f domain.LegacyFlight
	var departure, arrival []byte
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &departure, &arrival,
		&f.CreatedBy, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(departure, &f.Departure); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(arrival, &f.Arrival); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
