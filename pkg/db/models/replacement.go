package models

import "time"

type Replacement struct {
	WorkItemBase
	Status    string    `gorm:"column:status;size:50"`
	CreatedAt time.Time `gorm:"column:date_requested;not null"`
}

func (Replacement) TableName() string { return "replacement" }

func (r *Replacement) Apply(fields WorkItemFields) {
	r.apply(fields)
	r.Status = fields.Status
}

func (r *Replacement) Snapshot() WorkItemSnapshot {
	snap := r.snapshot(r.CreatedAt)
	snap.Status = r.Status
	snap.HasStatus = true
	return snap
}

func (r *Replacement) SetCreatedAt(at time.Time) {
	r.CreatedAt = at
}
