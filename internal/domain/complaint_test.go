package domain_test

import (
	"testing"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

func TestComplaintValidateInvariants(t *testing.T) {
	c := domain.Complaint{
		ID:          "complaint-1",
		Description: "pump 3 leaking",
		Type:        "TECHNIQUE",
		Status:      domain.ComplaintStatusPending,
		ManagerID:   "gerant-1",
	}
	if errs := c.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	empty := domain.Complaint{}
	errs := empty.ValidateInvariants()
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %v", errs)
	}
}

func TestValidComplaintTransition(t *testing.T) {
	if !domain.ValidComplaintTransition(domain.ComplaintStatusPending, domain.ComplaintStatusInProgress) {
		t.Error("PENDING -> IN_PROGRESS should be allowed")
	}
	if !domain.ValidComplaintTransition(domain.ComplaintStatusInProgress, domain.ComplaintStatusValidated) {
		t.Error("IN_PROGRESS -> VALIDATED should be allowed")
	}
	if domain.ValidComplaintTransition(domain.ComplaintStatusPending, domain.ComplaintStatusValidated) {
		t.Error("PENDING -> VALIDATED should be denied")
	}
	if domain.ValidComplaintTransition(domain.ComplaintStatusValidated, domain.ComplaintStatusPending) {
		t.Error("VALIDATED is terminal")
	}
}
