package schema

// UserPasswordResetTokenTable represents the 'users.passwordresettoken' table
type UserPasswordResetTokenTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt string
	CreatedAt string
}

// UserPasswordResetToken is the schema definition for users.passwordresettoken
var UserPasswordResetToken = UserPasswordResetTokenTable{
	Table:     "users.passwordresettoken",
	ID:        "id",
	UserID:    "userid",
	TokenHash: "tokenhash",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}
