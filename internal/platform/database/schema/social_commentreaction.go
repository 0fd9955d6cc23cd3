package schema

// SocialCommentReactionTable represents the 'social.commentreaction' table
type SocialCommentReactionTable struct {
	Table     string
	UserID    string
	CommentID string
	Reaction  string
	UpdatedAt string
}

// SocialCommentReaction is the schema definition for social.commentreaction
var SocialCommentReaction = SocialCommentReactionTable{
	Table:     "social.commentreaction",
	UserID:    "userid",
	CommentID: "commentid",
	Reaction:  "reaction",
	UpdatedAt: "updatedat",
}
