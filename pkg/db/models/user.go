package models

// User is an authenticated principal. Permissions come from Role only.
type User struct {
	ID           uint   `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;size:100;not null"`
	Email        string `gorm:"column:email;size:100;not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password;size:255;not null"`
	CompanyID    uint   `gorm:"column:company_id;not null;index"`
	RoleID       uint   `gorm:"column:role_id;not null;index"`

	Company *Company `gorm:"foreignKey:CompanyID"`
	Role    *Role    `gorm:"foreignKey:RoleID"`
}

func (User) TableName() string { return "user" }

// IsAdmin reads through to the loaded role so a change to the role's flag
// applies to every holder on their next request.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role != nil && u.Role.IsAdmin
}
