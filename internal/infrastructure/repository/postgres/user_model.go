package postgres

type userTableModel struct {
	PublicID    string `db:"public_id"`
	DisplayName string `db:"display_name"`
	IsActive    bool   `db:"is_active"`
}
