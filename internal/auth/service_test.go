package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/db/dbtest"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/security"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastArgon = config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Client(t)
	svc, err := NewService(ServiceParams{DB: client, PasswordCfg: fastArgon})
	require.NoError(t, err)
	return svc, client
}

func seedUser(t *testing.T, client *db.Client, email, password string) models.User {
	t.Helper()
	company := models.Company{Name: "Acme"}
	require.NoError(t, client.DB().Create(&company).Error)
	role := rbac.NewRole("Manager", enums.CapabilityViewComplaints)
	require.NoError(t, client.DB().Create(&role).Error)
	hash, err := security.HashPassword(password, fastArgon)
	require.NoError(t, err)
	user := models.User{Name: "Jane", Email: email, PasswordHash: hash, CompanyID: company.ID, RoleID: role.ID}
	require.NoError(t, client.DB().Create(&user).Error)
	return user
}

func TestNewServiceRequiresDB(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	svc, client := newTestService(t)
	user := seedUser(t, client, "jane@example.com", "secret")

	result, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)
	require.Equal(t, "Manager", result.User.RoleName)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, client := newTestService(t)
	seedUser(t, client, "jane@example.com", "secret")
	ctx := context.Background()

	cases := []LoginRequest{
		{Email: "nobody@example.com", Password: "secret"},
		{Email: "jane@example.com", Password: "wrong"},
		{Email: "JANE@example.com", Password: "secret"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), req.Email)
		require.Equal(t, MsgLoginFailed, pkgerrors.As(err).Message())
	}
}

func TestLoginUpgradesBcryptHash(t *testing.T) {
	svc, client := newTestService(t)
	user := seedUser(t, client, "legacy@example.com", "unused")
	legacy, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(&models.User{}).Where("id = ?", user.ID).Update("password", string(legacy)).Error)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "legacy@example.com", Password: "oldpass"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, client.DB().First(&stored, user.ID).Error)
	require.False(t, security.NeedsRehash(stored.PasswordHash))
	ok, err := security.VerifyPassword("oldpass", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterPasswordMismatchCreatesNothing(t *testing.T) {
	svc, client := newTestService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com", Password: "one", ConfirmPassword: "two"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, MsgPasswordsMismatch, pkgerrors.As(err).Message())

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, client := newTestService(t)
	seedUser(t, client, "jane@example.com", "secret")

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "J", Email: "jane@example.com", Password: "x", ConfirmPassword: "x"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, MsgEmailRegistered, pkgerrors.As(err).Message())

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Where("email = ?", "jane@example.com").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestRegisterOnEmptyDatabaseCreatesDefaults(t *testing.T) {
	svc, client := newTestService(t)
	created, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	require.Equal(t, defaultCompanyName, created.CompanyName)
	require.Equal(t, fallbackRoleName, created.RoleName)
	require.False(t, created.IsAdmin)

	var role models.Role
	require.NoError(t, client.DB().First(&role, created.RoleID).Error)
	require.True(t, role.CanViewComplaints && role.CanViewRepairs && role.CanViewReplacements)
	require.False(t, role.CanManageComplaints || role.CanManageRepairs || role.CanManageReplacements)
	require.False(t, role.IsAdmin || role.CanManageUsers)
}

func TestRegisterPrefersManagerThenFirstNonAdmin(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	for _, row := range []any{
		&models.Company{Name: "First"},
		&models.Company{Name: "Second"},
	} {
		require.NoError(t, client.DB().Create(row).Error)
	}
	admin := rbac.NewRole("Admin", enums.Capabilities()...)
	cleaner := rbac.NewRole("Cleaner", enums.CapabilityViewReplacements)
	require.NoError(t, client.DB().Create(&admin).Error)
	require.NoError(t, client.DB().Create(&cleaner).Error)

	created, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	require.Equal(t, "First", created.CompanyName)
	require.Equal(t, "Cleaner", created.RoleName)

	manager := rbac.NewRole("Manager", enums.CapabilityViewComplaints)
	require.NoError(t, client.DB().Create(&manager).Error)
	created, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "b@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	require.Equal(t, "Manager", created.RoleName)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	svc, client := newTestService(t)
	require.NoError(t, client.DB().Create(&models.Company{Name: "Acme"}).Error)
	adminManager := rbac.NewRole("Manager", enums.Capabilities()...)
	require.NoError(t, client.DB().Create(&adminManager).Error)

	created, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	require.False(t, created.IsAdmin)
	require.Equal(t, fallbackRoleName, created.RoleName)
}

func TestLoadActor(t *testing.T) {
	svc, client := newTestService(t)
	user := seedUser(t, client, "jane@example.com", "secret")

	actor, err := svc.LoadActor(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, actor.UserID)
	require.Equal(t, user.CompanyID, actor.CompanyID)
	require.True(t, actor.Can(enums.CapabilityViewComplaints))

	require.NoError(t, client.DB().Model(&models.Role{}).Where("id = ?", user.RoleID).Update("can_view_complaints", false).Error)
	actor, err = svc.LoadActor(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, actor.Can(enums.CapabilityViewComplaints))

	_, err = svc.LoadActor(context.Background(), 999)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
