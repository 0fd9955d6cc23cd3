package schema

// SocialMovieReactionTable represents the 'social.moviereaction' table
type SocialMovieReactionTable struct {
	Table     string
	UserID    string
	MovieID   string
	Reaction  string
	UpdatedAt string
}

// SocialMovieReaction is the schema definition for social.moviereaction
var SocialMovieReaction = SocialMovieReactionTable{
	Table:     "social.moviereaction",
	UserID:    "userid",
	MovieID:   "movieid",
	Reaction:  "reaction",
	UpdatedAt: "updatedat",
}
