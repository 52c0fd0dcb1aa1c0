package models

// Post matches the posts table. User is embedded by the list and
// single-post lookups.
type Post struct {
	ID     int    `db:"id" json:"id"`
	Title  string `db:"title" json:"title"`
	Body   string `db:"body" json:"body"`
	UserID int    `db:"user_id" json:"userId"`

	User *User `db:"-" json:"user,omitempty"`
}
