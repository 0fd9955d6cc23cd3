package schema

// UserGroupTable represents the 'users.group' table
type UserGroupTable struct {
	Table string
	ID    string
	Name  string
}

// UserGroup is the schema definition for users.group
var UserGroup = UserGroupTable{
	Table: `users."group"`,
	ID:    "id",
	Name:  "name",
}
