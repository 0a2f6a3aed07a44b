package complaints_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbarhoumi/agil-backoffice/internal/access"
	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/service/complaints"
	"github.com/mbarhoumi/agil-backoffice/internal/storage/memory"
)

var (
	admin      = access.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	manager    = access.Actor{ID: "gerant-1", Role: domain.RoleGerant}
	commercial = access.Actor{ID: "com-1", Role: domain.RoleCommercial}
)

func newService() (*complaints.Service, *memory.ComplaintRepository) {
	repo := memory.NewComplaintRepository()
	return complaints.New(repo, nil), repo
}

func TestCreate_GerantFilesForSelf(t *testing.T) {
	svc, _ := newService()

	c, err := svc.Create(context.Background(), manager, complaints.CreateInput{
		Description: "late delivery at station 12",
		Type:        "DELIVERY",
		ManagerID:   "someone-else", // ignored for GERANT
	})
	require.NoError(t, err)
	require.Equal(t, manager.ID, c.ManagerID)
	require.Equal(t, domain.ComplaintStatusPending, c.Status)
	require.Empty(t, c.CommercialID)
}

func TestCreate_CommercialAutoAssigned(t *testing.T) {
	svc, _ := newService()

	c, err := svc.Create(context.Background(), commercial, complaints.CreateInput{
		Description: "pump calibration drift",
		Type:        "EQUIPMENT",
		ManagerID:   manager.ID,
	})
	require.NoError(t, err)
	require.Equal(t, manager.ID, c.ManagerID)
	require.Equal(t, commercial.ID, c.CommercialID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), commercial, complaints.CreateInput{
		Type:      "EQUIPMENT",
		ManagerID: manager.ID,
	})
	require.ErrorIs(t, err, domain.ErrComplaintDescriptionRequired)

	_, err = svc.Create(context.Background(), commercial, complaints.CreateInput{
		Description: "no type",
		ManagerID:   manager.ID,
	})
	require.ErrorIs(t, err, domain.ErrComplaintTypeRequired)

	_, err = svc.Create(context.Background(), commercial, complaints.CreateInput{
		Description: "no manager",
		Type:        "OTHER",
	})
	require.ErrorIs(t, err, domain.ErrComplaintManagerRequired)
}

func TestGet_Visibility(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, commercial, complaints.CreateInput{
		Description: "billing mismatch",
		Type:        "BILLING",
		ManagerID:   manager.ID,
	})
	require.NoError(t, err)

	for _, actor := range []access.Actor{manager, commercial, admin} {
		_, err := svc.Get(ctx, actor, c.ID)
		require.NoError(t, err, "actor %s must see the complaint", actor.ID)
	}

	_, err = svc.Get(ctx, access.Actor{ID: "gerant-2", Role: domain.RoleGerant}, c.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Get(ctx, admin, "missing")
	require.ErrorIs(t, err, domain.ErrComplaintNotFound)
}

func TestListMine_ByRole(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, commercial, complaints.CreateInput{
		Description: "one", Type: "OTHER", ManagerID: manager.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, manager, complaints.CreateInput{
		Description: "two", Type: "OTHER",
	})
	require.NoError(t, err)

	byManager, err := svc.ListMine(ctx, manager)
	require.NoError(t, err)
	require.Len(t, byManager, 2)

	byCommercial, err := svc.ListMine(ctx, commercial)
	require.NoError(t, err)
	require.Len(t, byCommercial, 1)

	all, err := svc.ListMine(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = svc.List(ctx, manager)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_Flow(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, commercial, complaints.CreateInput{
		Description: "stuck valve",
		Type:        "EQUIPMENT",
		ManagerID:   manager.ID,
	})
	require.NoError(t, err)

	// Cannot validate straight from PENDING.
	err = svc.UpdateStatus(ctx, commercial, c.ID, domain.ComplaintStatusValidated)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// PENDING is never a target.
	err = svc.UpdateStatus(ctx, commercial, c.ID, domain.ComplaintStatusPending)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = svc.UpdateStatus(ctx, commercial, c.ID, "CLOSED")
	require.ErrorIs(t, err, domain.ErrStatusUnknown)

	// An unrelated gerant may not treat it.
	err = svc.UpdateStatus(ctx, access.Actor{ID: "gerant-2", Role: domain.RoleGerant}, c.ID, domain.ComplaintStatusInProgress)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.UpdateStatus(ctx, commercial, c.ID, domain.ComplaintStatusInProgress))
	require.NoError(t, svc.UpdateStatus(ctx, commercial, c.ID, domain.ComplaintStatusValidated))

	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusValidated, stored.Status)
}
