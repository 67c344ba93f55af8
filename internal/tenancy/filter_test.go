package tenancy

import (
	"testing"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db/dbtest"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	actor := rbac.Actor{UserID: 1, CompanyID: 1}

	require.NoError(t, Guard(actor, 1, "nope"))

	err := Guard(actor, 2, "You are not authorized to update this complaint")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Equal(t, "You are not authorized to update this complaint", typed.Message())
}

func TestOwnsRejectsZeroCompany(t *testing.T) {
	assert.False(t, Owns(rbac.Actor{}, 0))
	assert.True(t, Owns(rbac.Actor{CompanyID: 5}, 5))
}

func TestScopeFiltersInQuery(t *testing.T) {
	conn := dbtest.Open(t)
	rows := []models.Complaint{
		{WorkItemBase: models.WorkItemBase{Item: "a", Unit: "1", UserID: 1, CompanyID: 1}},
		{WorkItemBase: models.WorkItemBase{Item: "b", Unit: "2", UserID: 2, CompanyID: 2}},
		{WorkItemBase: models.WorkItemBase{Item: "c", Unit: "3", UserID: 1, CompanyID: 1}},
	}
	require.NoError(t, conn.Create(&rows).Error)

	var got []models.Complaint
	require.NoError(t, conn.Scopes(Scope(1)).Order("id").Find(&got).Error)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, uint(1), c.CompanyID)
	}
}
