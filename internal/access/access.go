// Package access decides, for an (actor, resource) pair, whether an
// operation is permitted. Checks are pure functions over the actor's role
// and the resource's ownership fields; they return a decision, never an
// error. Mutating repositories re-apply the same predicate inside their
// UPDATE statements so the decision cannot go stale between check and write.
package access

import "github.com/mbarhoumi/agil-backoffice/internal/domain"

// Actor is the authenticated caller identity.
type Actor struct {
	ID   string
	Role domain.Role
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...domain.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// CanManageOrder permits the order's owner and ADMIN to read or update it.
func CanManageOrder(a Actor, ownerID string) bool {
	return a.ID == ownerID || a.Is(domain.RoleAdmin)
}

// CanAssignDelivery permits the owner, ADMIN and DEPOT to assign a validated
// order to a station delivery.
func CanAssignDelivery(a Actor, ownerID string) bool {
	return a.ID == ownerID || a.Is(domain.RoleAdmin, domain.RoleDepot)
}

// CanViewComplaint permits the assigned manager, the assigned commercial and
// ADMIN to read a complaint.
func CanViewComplaint(a Actor, c domain.Complaint) bool {
	if a.ID != "" && (a.ID == c.ManagerID || a.ID == c.CommercialID) {
		return true
	}
	return a.Is(domain.RoleAdmin)
}

// CanResolveComplaint permits complaint status changes: the assigned users,
// ADMIN, and any COMMERCIAL.
func CanResolveComplaint(a Actor, c domain.Complaint) bool {
	return CanViewComplaint(a, c) || a.Is(domain.RoleCommercial)
}

// OrderPrivileged reports whether the role alone grants order mutations
// regardless of ownership.
func OrderPrivileged(a Actor) bool {
	return a.Is(domain.RoleAdmin)
}

// DeliveryPrivileged reports whether the role alone grants delivery
// assignment regardless of ownership.
func DeliveryPrivileged(a Actor) bool {
	return a.Is(domain.RoleAdmin, domain.RoleDepot)
}

// ComplaintPrivileged reports whether the role alone grants complaint status
// changes regardless of assignment.
func ComplaintPrivileged(a Actor) bool {
	return a.Is(domain.RoleAdmin, domain.RoleCommercial)
}
