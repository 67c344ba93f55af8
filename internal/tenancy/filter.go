// Package tenancy confines reads and writes to the acting user's company.
package tenancy

import (
	"github.com/angelmondragon/propertyhub/internal/rbac"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"gorm.io/gorm"
)

const companyColumn = "company_id"

// Scope filters a query to rows owned by companyID. Listings and bulk
// mutations apply it in the query itself rather than post-filtering.
func Scope(companyID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(companyColumn+" = ?", companyID)
	}
}

// Owns reports whether a record stamped with recordCompanyID belongs to the
// actor's current company.
func Owns(actor rbac.Actor, recordCompanyID uint) bool {
	return actor.CompanyID != 0 && actor.CompanyID == recordCompanyID
}

// Guard re-checks ownership of a record already loaded by id. A mismatch
// yields a forbidden error carrying message.
func Guard(actor rbac.Actor, recordCompanyID uint, message string) error {
	if Owns(actor, recordCompanyID) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, message).WithDetails(map[string]any{
		"actor_company_id":  actor.CompanyID,
		"record_company_id": recordCompanyID,
	})
}
