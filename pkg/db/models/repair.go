package models

import "time"

type Repair struct {
	WorkItemBase
	Status    string    `gorm:"column:status;size:50"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (Repair) TableName() string { return "repair" }

func (r *Repair) Apply(fields WorkItemFields) {
	r.apply(fields)
	r.Status = fields.Status
}

func (r *Repair) Snapshot() WorkItemSnapshot {
	snap := r.snapshot(r.CreatedAt)
	snap.Status = r.Status
	snap.HasStatus = true
	return snap
}

func (r *Repair) SetCreatedAt(at time.Time) {
	r.CreatedAt = at
}
