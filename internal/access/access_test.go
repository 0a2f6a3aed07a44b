package access_test

import (
	"testing"

	"github.com/mbarhoumi/agil-backoffice/internal/access"
	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

func TestCanManageOrder(t *testing.T) {
	owner := access.Actor{ID: "user-1", Role: domain.RoleGerant}
	admin := access.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	depot := access.Actor{ID: "depot-1", Role: domain.RoleDepot}
	other := access.Actor{ID: "user-2", Role: domain.RoleGerant}

	if !access.CanManageOrder(owner, "user-1") {
		t.Error("owner must manage own order")
	}
	if !access.CanManageOrder(admin, "user-1") {
		t.Error("admin must manage any order")
	}
	if access.CanManageOrder(depot, "user-1") {
		t.Error("depot must not manage foreign orders")
	}
	if access.CanManageOrder(other, "user-1") {
		t.Error("non-owner gerant must not manage foreign orders")
	}
}

func TestCanAssignDelivery(t *testing.T) {
	if !access.CanAssignDelivery(access.Actor{ID: "depot-1", Role: domain.RoleDepot}, "user-1") {
		t.Error("depot must assign deliveries")
	}
	if !access.CanAssignDelivery(access.Actor{ID: "admin-1", Role: domain.RoleAdmin}, "user-1") {
		t.Error("admin must assign deliveries")
	}
	if !access.CanAssignDelivery(access.Actor{ID: "user-1", Role: domain.RoleGerant}, "user-1") {
		t.Error("owner must assign deliveries for own order")
	}
	if access.CanAssignDelivery(access.Actor{ID: "com-1", Role: domain.RoleCommercial}, "user-1") {
		t.Error("commercial must not assign deliveries")
	}
}

func TestComplaintChecks(t *testing.T) {
	c := domain.Complaint{ID: "c1", ManagerID: "gerant-1", CommercialID: "com-1"}

	gerant := access.Actor{ID: "gerant-1", Role: domain.RoleGerant}
	assigned := access.Actor{ID: "com-1", Role: domain.RoleCommercial}
	otherCom := access.Actor{ID: "com-2", Role: domain.RoleCommercial}
	otherGerant := access.Actor{ID: "gerant-2", Role: domain.RoleGerant}
	admin := access.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	if !access.CanViewComplaint(gerant, c) || !access.CanViewComplaint(assigned, c) || !access.CanViewComplaint(admin, c) {
		t.Error("assigned users and admin must view the complaint")
	}
	if access.CanViewComplaint(otherGerant, c) {
		t.Error("foreign gerant must not view the complaint")
	}
	if access.CanViewComplaint(otherCom, c) {
		t.Error("unassigned commercial must not view the complaint")
	}

	// Status changes additionally open to any commercial.
	if !access.CanResolveComplaint(otherCom, c) {
		t.Error("any commercial may resolve complaints")
	}
	if access.CanResolveComplaint(otherGerant, c) {
		t.Error("foreign gerant must not resolve the complaint")
	}
}

func TestPrivilegedFlags(t *testing.T) {
	if !access.OrderPrivileged(access.Actor{Role: domain.RoleAdmin}) {
		t.Error("admin is order-privileged")
	}
	if access.OrderPrivileged(access.Actor{Role: domain.RoleDepot}) {
		t.Error("depot is not order-privileged")
	}
	if !access.DeliveryPrivileged(access.Actor{Role: domain.RoleDepot}) {
		t.Error("depot is delivery-privileged")
	}
	if !access.ComplaintPrivileged(access.Actor{Role: domain.RoleCommercial}) {
		t.Error("commercial is complaint-privileged")
	}
	if access.ComplaintPrivileged(access.Actor{Role: domain.RoleGerant}) {
		t.Error("gerant is not complaint-privileged")
	}
}
