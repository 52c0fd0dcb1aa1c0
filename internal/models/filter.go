package models

import "math"

// UserFilter holds case-insensitive substring filters. Empty fields are
// ignored.
type UserFilter struct {
	Username string
	Email    string
	City     string
}

type PostFilter struct {
	Title  string
	UserID *int
}

// Pagination bounds. MaxPage keeps the offset far away from overflow.
const (
	MaxLimit = 100
	MaxPage  = math.MaxInt32
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Positive reports whether both page and limit are at least 1.
func (p Pagination) Positive() bool {
	return p.Page >= 1 && p.Limit >= 1
}

// WithinBounds reports whether page and limit stay under MaxPage and
// MaxLimit.
func (p Pagination) WithinBounds() bool {
	return p.Page <= MaxPage && p.Limit <= MaxLimit
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
