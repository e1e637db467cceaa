package schema

// AdminAccountTable represents the 'admins' table
type AdminAccountTable struct {
	Table        string
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    string
}

// AdminAccount is the schema definition for admins
var AdminAccount = AdminAccountTable{
	Table:        "admins",
	ID:           "id",
	Username:     "username",
	PasswordHash: "password_hash",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names in scan order
func (t AdminAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.PasswordHash, t.CreatedAt}
}
