package models

// Role carries the capability flags shared by every user holding it.
type Role struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:50;not null"`

	CanViewComplaints   bool `gorm:"column:can_view_complaints;not null;default:false"`
	CanManageComplaints bool `gorm:"column:can_manage_complaints;not null;default:false"`

	CanViewRepairs   bool `gorm:"column:can_view_repairs;not null;default:false"`
	CanManageRepairs bool `gorm:"column:can_manage_repairs;not null;default:false"`

	CanViewReplacements   bool `gorm:"column:can_view_replacements;not null;default:false"`
	CanManageReplacements bool `gorm:"column:can_manage_replacements;not null;default:false"`

	IsAdmin        bool `gorm:"column:is_admin;not null;default:false"`
	CanManageUsers bool `gorm:"column:can_manage_users;not null;default:false"`
}

func (Role) TableName() string { return "role" }
