package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	IsActive     string
	GroupID      string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	PasswordHash: "passwordhash",
	IsActive:     "isactive",
	GroupID:      "groupid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
