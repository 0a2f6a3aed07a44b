package domain

import "time"

// ComplaintStatus describes the lifecycle of a complaint.
type ComplaintStatus string

const (
	// ComplaintStatusPending is the initial status of a filed complaint.
	ComplaintStatusPending ComplaintStatus = "PENDING"
	// ComplaintStatusInProgress marks a complaint under treatment.
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	// ComplaintStatusValidated is the terminal resolved status.
	ComplaintStatusValidated ComplaintStatus = "VALIDATED"
)

var complaintTransitions = map[ComplaintStatus]map[ComplaintStatus]bool{
	ComplaintStatusPending:    {ComplaintStatusInProgress: true},
	ComplaintStatusInProgress: {ComplaintStatusValidated: true},
	ComplaintStatusValidated:  {},
}

// ValidComplaintTransition reports whether a complaint may move between statuses.
func ValidComplaintTransition(from, to ComplaintStatus) bool {
	return complaintTransitions[from][to]
}

// KnownComplaintStatus reports whether s is one of the defined complaint statuses.
func KnownComplaintStatus(s ComplaintStatus) bool {
	_, ok := complaintTransitions[s]
	return ok
}

// Complaint is filed by or on behalf of a station manager. It mirrors Order
// for access-control purposes: the assigned manager and commercial are its
// owners.
type Complaint struct {
	ID          string
	Description string
	Type        string
	Status      ComplaintStatus
	// ManagerID references the GERANT the complaint concerns.
	ManagerID string
	// CommercialID references the COMMERCIAL handling it, empty if unassigned.
	CommercialID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateInvariants checks the complaint invariants and returns every violation.
func (c *Complaint) ValidateInvariants() []error {
	var errs []error
	if c.Description == "" {
		errs = append(errs, ErrComplaintDescriptionRequired)
	}
	if c.Type == "" {
		errs = append(errs, ErrComplaintTypeRequired)
	}
	if c.ManagerID == "" {
		errs = append(errs, ErrComplaintManagerRequired)
	}
	return errs
}
