package workitems

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/db/dbtest"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 6, 30, 0, 0, time.UTC)

func managerRole() models.Role {
	return rbac.NewRole("Manager",
		enums.CapabilityViewComplaints, enums.CapabilityManageComplaints,
		enums.CapabilityViewRepairs, enums.CapabilityManageRepairs,
		enums.CapabilityViewReplacements, enums.CapabilityManageReplacements,
	)
}

func newTestServices(t *testing.T) (*Services, *db.Client, *prometheus.Registry) {
	t.Helper()
	client := dbtest.Client(t)
	reg := prometheus.NewRegistry()
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	require.NoError(t, err)
	svcs, err := NewServices(ServiceParams{
		DB:       client,
		Metrics:  metrics.NewWorkItemMetrics(reg),
		Location: loc,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svcs, client, reg
}

func TestNewServicesRequiresDB(t *testing.T) {
	_, err := NewServices(ServiceParams{})
	require.Error(t, err)
}

func TestCrossTenantUpdateIsForbidden(t *testing.T) {
	svcs, client, _ := newTestServices(t)
	ctx := context.Background()
	userA := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}
	userB := rbac.Actor{UserID: 2, CompanyID: 2, Role: managerRole()}

	created, err := svcs.Complaints.Create(ctx, userA, Request{Item: "Leaky faucet", Unit: "12B", Remark: "kitchen"}.Bind())
	require.NoError(t, err)
	require.Equal(t, uint(1), created.CompanyID)
	require.Equal(t, uint(1), created.UserID)
	require.Nil(t, created.Status)

	_, err = svcs.Complaints.Update(ctx, userB, created.ID, Request{Item: "Fixed", Unit: "12B"}.Bind())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.Equal(t, "You are not authorized to update this complaint", pkgerrors.As(err).Message())

	err = svcs.Complaints.Delete(ctx, userB, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.Equal(t, "You are not authorized to delete this complaint", pkgerrors.As(err).Message())

	var stored models.Complaint
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.Equal(t, "Leaky faucet", stored.Item)
	require.Equal(t, "kitchen", stored.Remark)
}

func TestAuditorCanViewButNotManage(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	manager := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}
	auditor := rbac.Actor{UserID: 2, CompanyID: 1, Role: rbac.NewRole("Auditor", enums.CapabilityViewComplaints)}

	created, err := svcs.Complaints.Create(ctx, manager, Request{Item: "Door", Unit: "3C"}.Bind())
	require.NoError(t, err)

	dash, err := svcs.Dashboard(ctx, auditor)
	require.NoError(t, err)
	require.Len(t, dash.Complaints, 1)
	require.Empty(t, dash.Repairs)
	require.Empty(t, dash.Replacements)

	_, err = svcs.Complaints.Create(ctx, auditor, Request{Item: "x", Unit: "y"}.Bind())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = svcs.Complaints.Update(ctx, auditor, created.ID, Request{Item: "x", Unit: "y"}.Bind())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.True(t, pkgerrors.IsCode(svcs.Complaints.Delete(ctx, auditor, created.ID), pkgerrors.CodeForbidden))
}

func TestMissingIDIsNotFoundBeforePermission(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	nobody := rbac.Actor{UserID: 9, CompanyID: 1, Role: rbac.NewRole("Nobody")}

	_, err := svcs.Repairs.Update(ctx, nobody, 404, Request{Item: "x", Unit: "y"}.Bind())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.True(t, pkgerrors.IsCode(svcs.Repairs.Delete(ctx, nobody, 404), pkgerrors.CodeNotFound))
}

func TestFieldsBindAfterAccessChecks(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	manager := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}
	auditor := rbac.Actor{UserID: 2, CompanyID: 1, Role: rbac.NewRole("Auditor", enums.CapabilityViewComplaints)}
	outsider := rbac.Actor{UserID: 3, CompanyID: 2, Role: managerRole()}

	created, err := svcs.Complaints.Create(ctx, manager, Request{Item: "Door", Unit: "3C"}.Bind())
	require.NoError(t, err)

	bound := 0
	invalid := func(*Request) error {
		bound++
		return pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all required fields")
	}

	_, err = svcs.Complaints.Create(ctx, auditor, invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = svcs.Complaints.Update(ctx, auditor, created.ID, invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = svcs.Complaints.Update(ctx, manager, 404, invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svcs.Complaints.Update(ctx, outsider, created.ID, invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.Zero(t, bound)

	_, err = svcs.Complaints.Update(ctx, manager, created.ID, invalid)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, 1, bound)
}

func TestRepairStatusDefaultsAndOverwrites(t *testing.T) {
	svcs, client, _ := newTestServices(t)
	ctx := context.Background()
	actor := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}

	created, err := svcs.Repairs.Create(ctx, actor, Request{Item: "AC", Unit: "4D"}.Bind())
	require.NoError(t, err)
	require.NotNil(t, created.Status)
	require.Equal(t, models.DefaultStatus, *created.Status)

	done := "Done"
	updated, err := svcs.Repairs.Update(ctx, actor, created.ID, Request{Item: "AC unit", Unit: "4D", Status: &done}.Bind())
	require.NoError(t, err)
	require.Equal(t, "Done", *updated.Status)

	var stored models.Repair
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.Equal(t, "AC unit", stored.Item)
	require.Equal(t, "Done", stored.Status)
	require.Equal(t, "", stored.Remark)

	_, err = svcs.Repairs.Update(ctx, actor, created.ID, Request{Item: "AC unit", Unit: "4D"}.Bind())
	require.NoError(t, err)
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.Equal(t, "Done", stored.Status)
}

func TestReplacementExplicitEmptyStatusIsStored(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	empty := ""
	created, err := svcs.Replacements.Create(context.Background(), rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()},
		Request{Item: "Bulb", Unit: "1A", Status: &empty}.Bind())
	require.NoError(t, err)
	require.Equal(t, "", *created.Status)
}

func TestUpdateOverwritesWithEmptyStrings(t *testing.T) {
	svcs, client, _ := newTestServices(t)
	ctx := context.Background()
	actor := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}

	created, err := svcs.Complaints.Create(ctx, actor, Request{Item: "Leak", Unit: "1", Remark: "bath"}.Bind())
	require.NoError(t, err)
	_, err = svcs.Complaints.Update(ctx, actor, created.ID, Request{}.Bind())
	require.NoError(t, err)

	var stored models.Complaint
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.Equal(t, "", stored.Item)
	require.Equal(t, "", stored.Remark)
	require.Equal(t, uint(1), stored.CompanyID)
}

func TestDeleteRemovesRow(t *testing.T) {
	svcs, client, _ := newTestServices(t)
	ctx := context.Background()
	actor := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}

	created, err := svcs.Replacements.Create(ctx, actor, Request{Item: "Bulb", Unit: "1A"}.Bind())
	require.NoError(t, err)
	require.NoError(t, svcs.Replacements.Delete(ctx, actor, created.ID))

	var count int64
	require.NoError(t, client.DB().Model(&models.Replacement{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCompanyStampedAtCreation(t *testing.T) {
	svcs, client, _ := newTestServices(t)
	ctx := context.Background()
	actor := rbac.Actor{UserID: 7, CompanyID: 3, Role: managerRole()}

	created, err := svcs.Complaints.Create(ctx, actor, Request{Item: "Gate", Unit: "G"}.Bind())
	require.NoError(t, err)

	moved := actor
	moved.CompanyID = 4
	list, err := svcs.Complaints.List(ctx, moved)
	require.NoError(t, err)
	require.Empty(t, list)

	var stored models.Complaint
	require.NoError(t, client.DB().First(&stored, created.ID).Error)
	require.Equal(t, uint(3), stored.CompanyID)
}

func TestDisplayTimeUsesLocation(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	created, err := svcs.Complaints.Create(context.Background(), rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()},
		Request{Item: "Lift", Unit: "L"}.Bind())
	require.NoError(t, err)
	require.Equal(t, fixedNow, created.CreatedAt)
	require.Equal(t, "Mar 05, 2024, 02:30 PM", created.DisplayTime)
}

func TestListAllRequiresAdmin(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()
	a := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}
	b := rbac.Actor{UserID: 2, CompanyID: 2, Role: managerRole()}
	for _, actor := range []rbac.Actor{a, b} {
		_, err := svcs.Repairs.Create(ctx, actor, Request{Item: "x", Unit: "y"}.Bind())
		require.NoError(t, err)
	}

	_, err := svcs.Repairs.ListAll(ctx, a)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	admin := rbac.Actor{UserID: 3, CompanyID: 1, Role: rbac.NewRole("Admin", enums.Capabilities()...)}
	all, err := svcs.Repairs.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestMetricsRecordOutcomes(t *testing.T) {
	svcs, _, reg := newTestServices(t)
	ctx := context.Background()
	actor := rbac.Actor{UserID: 1, CompanyID: 1, Role: managerRole()}

	_, err := svcs.Complaints.Create(ctx, actor, Request{Item: "x", Unit: "y"}.Bind())
	require.NoError(t, err)
	_ = svcs.Complaints.Delete(ctx, actor, 999)

	families, err := reg.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "work_item_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, pair := range m.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			outcomes[labels["op"]+"/"+labels["outcome"]] += m.GetCounter().GetValue()
		}
	}
	require.Equal(t, map[string]float64{"create/ok": 1, "delete/not_found": 1}, outcomes)
}

func TestServicesFor(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	for _, kind := range Kinds() {
		require.Equal(t, kind, svcs.For(kind).Kind())
	}
	require.Nil(t, svcs.For(Kind{Name: "nope"}))

	kind, err := ParseKind("replacement")
	require.NoError(t, err)
	require.Equal(t, "Replacement request added successfully", kind.SuccessMessage("added"))
	_, err = ParseKind("invoice")
	require.Error(t, err)
}
