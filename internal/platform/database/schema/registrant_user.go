package schema

// RegistrantUserTable represents the 'users' table holding registration records.
type RegistrantUserTable struct {
	Table      string
	ID         string
	Name       string
	Email      string
	Mobile     string
	Address    string
	IPAddress  string
	IPLocation string
	CreatedAt  string
}

// RegistrantUser is the schema definition for users
var RegistrantUser = RegistrantUserTable{
	Table:      "users",
	ID:         "id",
	Name:       "name",
	Email:      "email",
	Mobile:     "mobile",
	Address:    "address",
	IPAddress:  "ip_address",
	IPLocation: "ip_location",
	CreatedAt:  "created_at",
}

// Columns returns all standard column names in scan order
func (t RegistrantUserTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Mobile, t.Address, t.IPAddress, t.IPLocation, t.CreatedAt,
	}
}

// SearchColumns returns the text columns matched by substring search
func (t RegistrantUserTable) SearchColumns() []string {
	return []string{t.Name, t.Email, t.Mobile, t.Address}
}
