package roles

import (
	"context"
	"testing"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/db/dbtest"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/stretchr/testify/require"
)

var admin = rbac.Actor{UserID: 1, CompanyID: 1, Role: rbac.NewRole("Admin", enums.CapabilityAdmin)}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Client(t)
	svc, err := NewService(ServiceParams{DB: client})
	require.NoError(t, err)
	return svc, client
}

func TestCreateStoresCheckboxFlags(t *testing.T) {
	svc, client := newTestService(t)

	created, err := svc.Create(context.Background(), admin, RoleRequest{Name: "Auditor", CanViewComplaints: true})
	require.NoError(t, err)
	require.True(t, created.CanViewComplaints)
	require.False(t, created.CanManageComplaints)

	var stored models.Role
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.True(t, rbac.Permitted(&stored, enums.CapabilityViewComplaints))
	for _, capability := range enums.Capabilities() {
		if capability != enums.CapabilityViewComplaints {
			require.False(t, rbac.Permitted(&stored, capability), capability.String())
		}
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, RoleRequest{Name: "Manager"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, admin, RoleRequest{Name: "Manager", IsAdmin: true})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, msgAlreadyExists, pkgerrors.As(err).Message())
}

func TestUpdateClearsUncheckedFlags(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, admin, RoleRequest{Name: "Ops", CanViewRepairs: true, CanManageRepairs: true, IsAdmin: true})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, created.ID, RoleRequest{Name: "Ops2", CanViewRepairs: true})
	require.NoError(t, err)
	require.Equal(t, "Ops2", updated.Name)

	var stored models.Role
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.True(t, stored.CanViewRepairs)
	require.False(t, stored.CanManageRepairs)
	require.False(t, stored.IsAdmin)
}

func TestAdminFlagChangeAppliesToHolders(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, admin, RoleRequest{Name: "Ops"})
	require.NoError(t, err)
	user := models.User{Name: "u", Email: "u@example.com", PasswordHash: "x", CompanyID: 1, RoleID: created.ID}
	require.NoError(t, client.DB().Create(&user).Error)

	_, err = svc.Update(ctx, admin, created.ID, RoleRequest{Name: "Ops", IsAdmin: true})
	require.NoError(t, err)

	var loaded models.User
	require.NoError(t, client.DB().Preload("Role").First(&loaded, user.ID).Error)
	require.True(t, loaded.IsAdmin())
}

func TestDeleteBlockedWhileUsersExist(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, admin, RoleRequest{Name: "Cleaner"})
	require.NoError(t, err)
	user := models.User{Name: "u", Email: "u@example.com", PasswordHash: "x", CompanyID: 1, RoleID: created.ID}
	require.NoError(t, client.DB().Create(&user).Error)

	err = svc.Delete(ctx, admin, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, msgHasUsers, pkgerrors.As(err).Message())
	_, err = svc.Get(ctx, admin, created.ID)
	require.NoError(t, err)

	require.NoError(t, client.DB().Delete(&user).Error)
	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, admin, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNonAdminForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	usersOnly := rbac.Actor{UserID: 3, CompanyID: 1, Role: rbac.NewRole("HR", enums.CapabilityManageUsers)}
	_, err := svc.Create(context.Background(), usersOnly, RoleRequest{Name: "x"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}
