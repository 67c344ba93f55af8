package workitems

import (
	"time"

	"github.com/angelmondragon/propertyhub/pkg/db/models"
)

// DisplayLayout formats timestamps for people reading the dashboard.
const DisplayLayout = "Jan 02, 2006, 03:04 PM"

// WorkItemDTO is the view shape of a complaint, repair or replacement.
type WorkItemDTO struct {
	ID          uint      `json:"id"`
	Kind        string    `json:"kind"`
	Item        string    `json:"item"`
	Remark      string    `json:"remark"`
	Unit        string    `json:"unit"`
	Status      *string   `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayTime string    `json:"display_time"`
	UserID      uint      `json:"user_id"`
	CompanyID   uint      `json:"company_id"`
}

// Request carries the submitted fields. Status is nil when the form omits it.
type Request struct {
	Item   string  `form:"item,required"`
	Remark string  `form:"remark"`
	Unit   string  `form:"unit,required"`
	Status *string `form:"status"`
}

// Binder fills a Request from the submission. Services call it only once the
// caller has passed every access check.
type Binder func(*Request) error

// Bind returns a Binder that yields r unchanged.
func (r Request) Bind() Binder {
	return func(dst *Request) error {
		*dst = r
		return nil
	}
}

// Fields resolves the request against the current status: a missing status
// keeps current.
func (r Request) Fields(current string) models.WorkItemFields {
	status := current
	if r.Status != nil {
		status = *r.Status
	}
	return models.WorkItemFields{
		Item:   r.Item,
		Remark: r.Remark,
		Unit:   r.Unit,
		Status: status,
	}
}

func fromSnapshot(kind Kind, snap models.WorkItemSnapshot, loc *time.Location) WorkItemDTO {
	if loc == nil {
		loc = time.UTC
	}
	dto := WorkItemDTO{
		ID:          snap.ID,
		Kind:        kind.Name,
		Item:        snap.Item,
		Remark:      snap.Remark,
		Unit:        snap.Unit,
		CreatedAt:   snap.CreatedAt.UTC(),
		DisplayTime: snap.CreatedAt.In(loc).Format(DisplayLayout),
		UserID:      snap.UserID,
		CompanyID:   snap.CompanyID,
	}
	if snap.HasStatus {
		status := snap.Status
		dto.Status = &status
	}
	return dto
}
