package schema

// UserActivationTokenTable represents the 'users.activationtoken' table
type UserActivationTokenTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt string
	CreatedAt string
}

// UserActivationToken is the schema definition for users.activationtoken
var UserActivationToken = UserActivationTokenTable{
	Table:     "users.activationtoken",
	ID:        "id",
	UserID:    "userid",
	TokenHash: "tokenhash",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}
