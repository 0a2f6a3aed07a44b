package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

type stationRepository struct {
	db *sql.DB
}

// NewStationRepository builds the PostgreSQL StationRepository.
func NewStationRepository(store *Store) domain.StationRepository {
	return &stationRepository{db: store.DB()}
}

func (r *stationRepository) Create(ctx context.Context, s domain.Station) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO stations (id, name, address, manager_id, created_at)
		VALUES ($1,$2,$3,NULLIF($4, ''),$5)
	`, s.ID, s.Name, s.Address, s.ManagerID, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert station: %w", err)
	}
	return nil
}

func (r *stationRepository) Get(ctx context.Context, id string) (domain.Station, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var s domain.Station
	var managerID sql.NullString
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, name, address, manager_id, created_at
		FROM stations
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Address, &managerID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Station{}, domain.ErrStationNotFound
		}
		return domain.Station{}, fmt.Errorf("select station: %w", err)
	}
	s.ManagerID = managerID.String
	return s, nil
}

func (r *stationRepository) List(ctx context.Context) ([]domain.Station, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, name, address, manager_id, created_at
		FROM stations
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		var managerID sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &managerID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		s.ManagerID = managerID.String
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}
	return stations, nil
}

var _ domain.StationRepository = (*stationRepository)(nil)
