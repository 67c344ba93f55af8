package rbac

import (
	"testing"

	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
)

func TestPermittedUnknownCapabilityIsFalse(t *testing.T) {
	roles := []models.Role{
		{},
		NewRole("Admin", enums.Capabilities()...),
		NewRole("Technician", enums.CapabilityViewRepairs, enums.CapabilityManageRepairs),
	}
	for _, role := range roles {
		role := role
		if Permitted(&role, enums.Capability("nonexistent_capability")) {
			t.Fatalf("role %q permitted an unknown capability", role.Name)
		}
		if PermittedByName(&role, "nonexistent_capability") {
			t.Fatalf("role %q permitted an unknown capability name", role.Name)
		}
	}
}

func TestPermittedNilRole(t *testing.T) {
	if Permitted(nil, enums.CapabilityViewComplaints) {
		t.Fatal("nil role must not be permitted")
	}
}

func TestPermittedReadsEachFlag(t *testing.T) {
	for _, capability := range enums.Capabilities() {
		role := NewRole("single", capability)
		for _, other := range enums.Capabilities() {
			want := other == capability
			if got := Permitted(&role, other); got != want {
				t.Fatalf("role granting %s: Permitted(%s)=%v want %v", capability, other, got, want)
			}
			if got := PermittedByName(&role, other.String()); got != want {
				t.Fatalf("role granting %s: PermittedByName(%s)=%v want %v", capability, other, got, want)
			}
		}
	}
}

func TestGrantsRoundTrip(t *testing.T) {
	role := NewRole("Manager",
		enums.CapabilityViewComplaints, enums.CapabilityManageComplaints,
		enums.CapabilityViewRepairs, enums.CapabilityManageRepairs,
	)
	grants := Grants(&role)
	if !grants[enums.CapabilityManageRepairs] || grants[enums.CapabilityAdmin] {
		t.Fatalf("unexpected grants %v", grants)
	}

	var copied models.Role
	SetGrants(&copied, grants)
	if copied.CanManageRepairs != role.CanManageRepairs || copied.CanViewReplacements {
		t.Fatalf("SetGrants did not reproduce role: %+v", copied)
	}
}

func TestIsAdminFollowsRole(t *testing.T) {
	role := NewRole("Ops")
	user := &models.User{ID: 1, Role: &role}
	if IsAdmin(user) || user.IsAdmin() {
		t.Fatal("expected non-admin")
	}

	role.IsAdmin = true
	if !IsAdmin(user) || !user.IsAdmin() {
		t.Fatal("flipping the role flag must make every holder admin")
	}
	if IsAdmin(nil) || IsAdmin(&models.User{}) {
		t.Fatal("users without a role are never admin")
	}
}

func TestNewActor(t *testing.T) {
	role := NewRole("Auditor", enums.CapabilityViewComplaints)
	actor, err := NewActor(&models.User{ID: 3, CompanyID: 9, Name: "A", Email: "a@x", Role: &role})
	if err != nil {
		t.Fatalf("new actor: %v", err)
	}
	if actor.UserID != 3 || actor.CompanyID != 9 {
		t.Fatalf("unexpected actor %+v", actor)
	}
	if !actor.Can(enums.CapabilityViewComplaints) || actor.Can(enums.CapabilityManageComplaints) {
		t.Fatalf("unexpected capability resolution")
	}
	if actor.IsAdmin() {
		t.Fatal("auditor is not admin")
	}

	if _, err := NewActor(&models.User{ID: 4}); err == nil {
		t.Fatal("expected error for user without role")
	}
	if _, err := NewActor(nil); err == nil {
		t.Fatal("expected error for nil user")
	}
}

func TestActorRequire(t *testing.T) {
	actor := Actor{UserID: 1, CompanyID: 1, Role: NewRole("Auditor", enums.CapabilityViewComplaints)}
	if err := actor.Require(enums.CapabilityViewComplaints); err != nil {
		t.Fatalf("expected view permitted, got %v", err)
	}
	err := actor.Require(enums.CapabilityManageComplaints)
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if pkgerrors.As(err).Message() != MsgNoPermission {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}
}
