package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

type complaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository builds the PostgreSQL ComplaintRepository.
func NewComplaintRepository(store *Store) domain.ComplaintRepository {
	return &complaintRepository{db: store.DB()}
}

const complaintColumns = `
	id, description, type, status, manager_id, commercial_id, created_at, updated_at
`

func (r *complaintRepository) Create(ctx context.Context, c domain.Complaint) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// commercial_id stays NULL until a commercial is assigned.
	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO complaints (
			id, description, type, status, manager_id, commercial_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,NULLIF($6, ''),$7,$8)
	`, c.ID, c.Description, c.Type, string(c.Status), c.ManagerID, c.CommercialID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) Get(ctx context.Context, id string) (domain.Complaint, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	c, err := scanComplaint(r.db.QueryRowContext(opCtx, `
		SELECT `+complaintColumns+` FROM complaints WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Complaint{}, domain.ErrComplaintNotFound
		}
		return domain.Complaint{}, fmt.Errorf("select complaint: %w", err)
	}
	return c, nil
}

func (r *complaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	return r.list(ctx, `
		SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC, id DESC
	`)
}

func (r *complaintRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Complaint, error) {
	return r.list(ctx, `
		SELECT `+complaintColumns+` FROM complaints
		WHERE manager_id = $1
		ORDER BY created_at DESC, id DESC
	`, managerID)
}

func (r *complaintRepository) ListByCommercial(ctx context.Context, commercialID string) ([]domain.Complaint, error) {
	return r.list(ctx, `
		SELECT `+complaintColumns+` FROM complaints
		WHERE commercial_id = $1
		ORDER BY created_at DESC, id DESC
	`, commercialID)
}

// UpdateStatus moves the complaint between statuses with the assignment
// predicate inside the UPDATE. ADMIN and any COMMERCIAL may treat any
// complaint; others must be assigned to it.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ComplaintStatus, actorID string, privileged bool) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE complaints
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		  AND (manager_id = $4 OR commercial_id = $4 OR $5)
	`, string(to), id, string(from), actorID, privileged)
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update complaint status rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var managerID string
	var commercialID sql.NullString
	var status string
	err = r.db.QueryRowContext(opCtx, `
		SELECT manager_id, commercial_id, status FROM complaints WHERE id = $1
	`, id).Scan(&managerID, &commercialID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrComplaintNotFound
		}
		return fmt.Errorf("inspect complaint: %w", err)
	}
	if managerID != actorID && commercialID.String != actorID && !privileged {
		return domain.ErrForbidden
	}
	return domain.ErrInvalidTransition
}

func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return complaints, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (domain.Complaint, error) {
	var c domain.Complaint
	var status string
	var commercialID sql.NullString
	err := row.Scan(
		&c.ID, &c.Description, &c.Type, &status,
		&c.ManagerID, &commercialID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Complaint{}, err
	}
	c.Status = domain.ComplaintStatus(status)
	c.CommercialID = commercialID.String
	return c, nil
}

var _ domain.ComplaintRepository = (*complaintRepository)(nil)
