package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Company{},
		&Role{},
		&User{},
		&Complaint{},
		&Repair{},
		&Replacement{},
	}
}
