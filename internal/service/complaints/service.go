// Package complaints implements complaint filing and status treatment.
package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/access"
	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

var statusUpdateSource = map[domain.ComplaintStatus]domain.ComplaintStatus{
	domain.ComplaintStatusInProgress: domain.ComplaintStatusPending,
	domain.ComplaintStatusValidated:  domain.ComplaintStatusInProgress,
}

// CreateInput is the payload for filing a complaint.
type CreateInput struct {
	Description string
	Type        string
	// ManagerID is the GERANT the complaint concerns. A GERANT actor may only
	// file for themselves.
	ManagerID string
}

// Service coordinates complaint operations.
type Service struct {
	complaints domain.ComplaintRepository
	logger     *log.Entry
}

// New builds the service.
func New(complaints domain.ComplaintRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "complaints")
	}
	return &Service{complaints: complaints, logger: logger}
}

// Create files a new complaint in PENDING. A COMMERCIAL actor is assigned to
// the complaint automatically; a GERANT actor always files for themselves.
func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (domain.Complaint, error) {
	managerID := in.ManagerID
	if actor.Role == domain.RoleGerant {
		managerID = actor.ID
	}

	now := time.Now().UTC()
	c := domain.Complaint{
		ID:          uuid.NewString(),
		Description: in.Description,
		Type:        in.Type,
		Status:      domain.ComplaintStatusPending,
		ManagerID:   managerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.Role == domain.RoleCommercial {
		c.CommercialID = actor.ID
	}

	if errs := c.ValidateInvariants(); len(errs) > 0 {
		return domain.Complaint{}, errs[0]
	}

	if err := s.complaints.Create(ctx, c); err != nil {
		return domain.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"complaint_id": c.ID,
		"type":         c.Type,
		"manager_id":   c.ManagerID,
	}).Info("complaint filed")
	return c, nil
}

// Get returns the complaint when the actor is assigned to it or is ADMIN.
func (s *Service) Get(ctx context.Context, actor access.Actor, id string) (domain.Complaint, error) {
	c, err := s.complaints.Get(ctx, id)
	if err != nil {
		return domain.Complaint{}, err
	}
	if !access.CanViewComplaint(actor, c) {
		return domain.Complaint{}, domain.ErrForbidden
	}
	return c, nil
}

// List returns every complaint. ADMIN only.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]domain.Complaint, error) {
	if !actor.Is(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.complaints.List(ctx)
}

// ListMine returns the complaints visible to the actor based on their role.
func (s *Service) ListMine(ctx context.Context, actor access.Actor) ([]domain.Complaint, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.complaints.List(ctx)
	case domain.RoleCommercial:
		return s.complaints.ListByCommercial(ctx, actor.ID)
	default:
		return s.complaints.ListByManager(ctx, actor.ID)
	}
}

// UpdateStatus moves the complaint to the requested status. Assignment is
// re-validated inside the repository write.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, id string, to domain.ComplaintStatus) error {
	if !domain.KnownComplaintStatus(to) {
		return domain.ErrStatusUnknown
	}
	from, ok := statusUpdateSource[to]
	if !ok {
		return domain.ErrInvalidTransition
	}

	err := s.complaints.UpdateStatus(ctx, id, from, to, actor.ID, access.ComplaintPrivileged(actor))
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"complaint_id": id,
		"status":       to,
		"actor_id":     actor.ID,
	}).Info("complaint status updated")
	return nil
}
