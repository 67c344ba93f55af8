package models

import "time"

// DefaultStatus is stored for repairs and replacements created without one.
const DefaultStatus = "Pending"

// WorkItemBase holds the columns shared by complaints, repairs and replacements.
type WorkItemBase struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	Item      string `gorm:"column:item;size:100;not null"`
	Remark    string `gorm:"column:remark;size:200"`
	Unit      string `gorm:"column:unit;size:20;not null"`
	UserID    uint   `gorm:"column:user_id;not null;index"`
	CompanyID uint   `gorm:"column:company_id;not null;index"`
}

// Base exposes the shared columns to generic callers.
func (b *WorkItemBase) Base() *WorkItemBase { return b }

// Stamp records the author and the author's company at creation time.
func (b *WorkItemBase) Stamp(userID, companyID uint) {
	b.UserID = userID
	b.CompanyID = companyID
}

// WorkItemFields are the user-editable values of a work item.
type WorkItemFields struct {
	Item   string
	Remark string
	Unit   string
	Status string
}

// WorkItemSnapshot is a flattened, read-only copy of any work item.
type WorkItemSnapshot struct {
	ID        uint
	Item      string
	Remark    string
	Unit      string
	Status    string
	HasStatus bool
	CreatedAt time.Time
	UserID    uint
	CompanyID uint
}

// WorkItem is implemented by *Complaint, *Repair and *Replacement.
type WorkItem interface {
	TableName() string
	Base() *WorkItemBase
	Stamp(userID, companyID uint)
	SetCreatedAt(at time.Time)
	Apply(fields WorkItemFields)
	Snapshot() WorkItemSnapshot
}

func (b *WorkItemBase) apply(fields WorkItemFields) {
	b.Item = fields.Item
	b.Remark = fields.Remark
	b.Unit = fields.Unit
}

func (b *WorkItemBase) snapshot(createdAt time.Time) WorkItemSnapshot {
	return WorkItemSnapshot{
		ID:        b.ID,
		Item:      b.Item,
		Remark:    b.Remark,
		Unit:      b.Unit,
		CreatedAt: createdAt,
		UserID:    b.UserID,
		CompanyID: b.CompanyID,
	}
}
