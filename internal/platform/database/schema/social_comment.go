package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	UserID    string
	MovieID   string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	UserID:    "userid",
	MovieID:   "movieid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
