package models

// Company is the tenant boundary. Users and work items belong to exactly one.
type Company struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:100;not null"`
}

func (Company) TableName() string { return "company" }
