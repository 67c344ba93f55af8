package models

import "time"

type Complaint struct {
	WorkItemBase
	CreatedAt time.Time `gorm:"column:date_added;not null"`
}

func (Complaint) TableName() string { return "complaint" }

// Apply ignores Status; complaints have none.
func (c *Complaint) Apply(fields WorkItemFields) {
	c.apply(fields)
}

func (c *Complaint) Snapshot() WorkItemSnapshot {
	return c.snapshot(c.CreatedAt)
}

func (c *Complaint) SetCreatedAt(at time.Time) {
	c.CreatedAt = at
}
